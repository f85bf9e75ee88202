package rbac

import "testing"

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	for _, perm := range []string{"lesson:view", "quiz:take", "quiz:submit", "results:view-own", "chat:send", "chat:history", "user:change_password"} {
		if !c.Has("student", perm) {
			t.Errorf("student should have %s", perm)
		}
	}
	for _, perm := range []string{"results:view-all", "admin:overview", "users:bulk_upsert"} {
		if c.Has("student", perm) {
			t.Errorf("student should not have %s", perm)
		}
		if !c.Has("admin", perm) {
			t.Errorf("admin wildcard should cover %s", perm)
		}
	}
	if c.Has("", "lesson:view") || c.Has("guest", "lesson:view") {
		t.Error("unknown roles must have nothing")
	}
}

func TestPrefixPermissions(t *testing.T) {
	c := NewChecker(map[string][]string{"assistant": {"chat:*"}})
	if !c.Has("assistant", "chat:send") || !c.Has("assistant", "chat:history") {
		t.Error("prefix pattern should match chat permissions")
	}
	if c.Has("assistant", "quiz:take") {
		t.Error("prefix pattern leaked outside its namespace")
	}
}
