package session

import (
	"testing"
	"time"
)

func TestDeriveRole(t *testing.T) {
	cases := []struct {
		username string
		want     Role
	}{
		{"syndic.principal", RoleManager},
		{"SYNDIC2", RoleManager},
		{"tech.martin", RoleTechnician},
		{"conseil.dupont", RoleCouncil},
		{"resident42", RoleResident},
		{"", RoleResident},
		// Substring match has no word boundary.
		{"technically", RoleTechnician},
		// "syndic" wins over "tech" when both appear.
		{"syndic-tech", RoleManager},
	}
	for _, tc := range cases {
		if got := DeriveRole(tc.username); got != tc.want {
			t.Errorf("DeriveRole(%q) = %s, want %s", tc.username, got, tc.want)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	if role, ok := NormalizeRole("MANAGER"); !ok || role != RoleManager {
		t.Fatalf("NormalizeRole(MANAGER) = %s, %v", role, ok)
	}
	if _, ok := NormalizeRole("admin"); ok {
		t.Fatal("expected unknown role to be rejected")
	}
	if _, ok := NormalizeRole(""); ok {
		t.Fatal("expected empty role to be rejected")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sess := Session{ExpiresAt: now.Add(time.Hour)}
	if sess.Expired(now) {
		t.Fatal("session should still be live")
	}
	if !sess.Expired(now.Add(2 * time.Hour)) {
		t.Fatal("session should be expired")
	}
	if (Session{}).Expired(now) {
		t.Fatal("zero expiry must never expire")
	}
}
