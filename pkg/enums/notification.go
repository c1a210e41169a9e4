package enums

import "fmt"

// NotificationType maps to notifications.type.
type NotificationType string

const (
	NotificationTypeItemClaimed    NotificationType = "item_claimed"
	NotificationTypeClaimApproved  NotificationType = "claim_approved"
	NotificationTypeClaimRejected  NotificationType = "claim_rejected"
	NotificationTypeClaimCompleted NotificationType = "claim_completed"
	NotificationTypeNewMessage     NotificationType = "new_message"
	NotificationTypeItemExpired    NotificationType = "item_expired"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeItemClaimed,
	NotificationTypeClaimApproved,
	NotificationTypeClaimRejected,
	NotificationTypeClaimCompleted,
	NotificationTypeNewMessage,
	NotificationTypeItemExpired,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

// NotificationTypeForClaim returns the notification sent to a claimer when
// their claim moves to status.
func NotificationTypeForClaim(status ClaimStatus) (NotificationType, bool) {
	switch status {
	case ClaimStatusApproved:
		return NotificationTypeClaimApproved, true
	case ClaimStatusRejected:
		return NotificationTypeClaimRejected, true
	case ClaimStatusCompleted:
		return NotificationTypeClaimCompleted, true
	}
	return "", false
}
