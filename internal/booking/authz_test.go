package booking

import "testing"

func TestParseRole(t *testing.T) {
	if ParseRole("Member") != RoleMember {
		t.Fatalf("expected member")
	}
	if ParseRole(" admin ") != RoleAdmin {
		t.Fatalf("expected admin")
	}
	if ParseRole("superuser") != RoleUnknown {
		t.Fatalf("expected unknown role")
	}
}

func TestResolveOwnerMember(t *testing.T) {
	// member 请求里带的归属人被静默覆盖为自己的 subject
	owner, err := ResolveOwner(Caller{Role: RoleMember, Subject: "m-1"}, "someone-else")
	if err != nil {
		t.Fatalf("ResolveOwner: %v", err)
	}
	if owner != "m-1" {
		t.Fatalf("expected owner m-1, got %s", owner)
	}

	_, err = ResolveOwner(Caller{Role: RoleMember}, "someone-else")
	if KindOf(err) != KindUnauthorized {
		t.Fatalf("expected unauthorized for member without subject, got %v", err)
	}
}

func TestResolveOwnerAdmin(t *testing.T) {
	owner, err := ResolveOwner(Caller{Role: RoleAdmin, Subject: "a-1"}, "m-2")
	if err != nil {
		t.Fatalf("ResolveOwner: %v", err)
	}
	if owner != "m-2" {
		t.Fatalf("expected owner m-2, got %s", owner)
	}

	_, err = ResolveOwner(Caller{Role: RoleAdmin, Subject: "a-1"}, "  ")
	if KindOf(err) != KindInvalidArgument {
		t.Fatalf("expected invalid_argument for admin without owner, got %v", err)
	}
}

func TestResolveOwnerUnknownRole(t *testing.T) {
	_, err := ResolveOwner(Caller{Role: RoleUnknown, Subject: "x"}, "m-2")
	if KindOf(err) != KindUnauthorized {
		t.Fatalf("expected unauthorized for unknown role, got %v", err)
	}
}
