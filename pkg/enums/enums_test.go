package enums

import "testing"

func TestStoredStatusMapping(t *testing.T) {
	cases := []struct {
		typ    ItemType
		status ItemStatus
		want   string
	}{
		{ItemTypeLost, ItemStatusActive, "ACTIVE"},
		{ItemTypeLost, ItemStatusClaimed, "FOUND"},
		{ItemTypeLost, ItemStatusResolved, "FOUND"},
		{ItemTypeLost, ItemStatusArchived, "ARCHIVED"},
		{ItemTypeFound, ItemStatusActive, "AVAILABLE"},
		{ItemTypeFound, ItemStatusClaimed, "CLAIMED"},
		{ItemTypeFound, ItemStatusResolved, "HANDED_OVER"},
		{ItemTypeFound, ItemStatusArchived, "ARCHIVED"},
	}
	for _, tc := range cases {
		got, err := StoredStatus(tc.typ, tc.status)
		if err != nil {
			t.Fatalf("%s/%s: unexpected error %v", tc.typ, tc.status, err)
		}
		if got != tc.want {
			t.Fatalf("%s/%s: expected %s got %s", tc.typ, tc.status, tc.want, got)
		}
	}
	if _, err := StoredStatus(ItemTypeLost, "expired"); err == nil {
		t.Fatalf("expected error for unknown token")
	}
}

func TestClaimTransitions(t *testing.T) {
	allowed := map[[2]ClaimStatus]bool{
		{ClaimStatusPending, ClaimStatusApproved}:   true,
		{ClaimStatusPending, ClaimStatusRejected}:   true,
		{ClaimStatusApproved, ClaimStatusCompleted}: true,
	}
	for _, from := range validClaimStatuses {
		for _, to := range validClaimStatuses {
			want := allowed[[2]ClaimStatus{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: expected %v got %v", from, to, want, got)
			}
		}
	}
}

func TestParseHelpersNormaliseCase(t *testing.T) {
	if v, err := ParseItemType(" Found "); err != nil || v != ItemTypeFound {
		t.Fatalf("ParseItemType: %v %v", v, err)
	}
	if v, err := ParseItemCategory("ELECTRONICS"); err != nil || v.DisplayName() != "Electronics" {
		t.Fatalf("ParseItemCategory: %v %v", v, err)
	}
	if _, err := ParseUrgency("critical"); err == nil {
		t.Fatalf("critical is not a client urgency")
	}
	if v, err := ParseClaimRole(""); err != nil || v != ClaimRoleClaimer {
		t.Fatalf("ParseClaimRole default: %v %v", v, err)
	}
	if v, err := ParseUserType("staff"); err != nil || v != UserTypeStaff {
		t.Fatalf("ParseUserType: %v %v", v, err)
	}
	if UrgencyHigh.Stored() != "HIGH" || ContactPreferencePhone.Stored() != "PHONE" {
		t.Fatalf("unexpected stored codes")
	}
}
