package access

import "testing"

func TestResolve_MatchByID(t *testing.T) {
	user := &User{ID: "u1", Email: "a@example.com"}
	entries := []Entry{
		{UserID: "u2", Role: "owner"},
		{UserID: "u1", Role: "editor"},
	}

	cap := Resolve(user, entries)
	if !cap.CanEdit {
		t.Error("Expected editor role to grant edit")
	}
	if cap.Role != "editor" {
		t.Errorf("Expected role editor, got %q", cap.Role)
	}
}

func TestResolve_MatchByEmailCaseInsensitive(t *testing.T) {
	user := &User{ID: "u9", Email: "Person@Example.COM"}
	entries := []Entry{
		{UserEmail: "person@example.com", Role: "edit"},
	}

	if !Resolve(user, entries).CanEdit {
		t.Error("Expected case-insensitive email match to grant edit")
	}
}

func TestResolve_ViewerAndUnknownRolesAreReadOnly(t *testing.T) {
	user := &User{ID: "u1"}
	for _, role := range []string{"viewer", "commenter", "admin", ""} {
		cap := Resolve(user, []Entry{{UserID: "u1", Role: role}})
		if cap.CanEdit {
			t.Errorf("Role %q should not grant edit", role)
		}
	}
}

func TestResolve_AbsentUserIsReadOnly(t *testing.T) {
	entries := []Entry{{UserID: "other", Role: "owner"}}
	if Resolve(&User{ID: "u1", Email: "x@y.z"}, entries).CanEdit {
		t.Error("Unlisted user should be view-only")
	}
	if Resolve(nil, entries).CanEdit {
		t.Error("Nil user should be view-only")
	}
}
