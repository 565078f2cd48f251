package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"raidctl/internal/secret"
)

func openTestStore(t *testing.T, vault *secret.Vault) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raidctl.db")
	s, err := Open(context.Background(), path, vault)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGetProfile_Plaintext(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	p := &Profile{Name: "bmc-1", Endpoint: "https://10.0.0.5", Username: "admin", Password: "hunter2", Vendor: "huawei"}
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.GetProfile(ctx, "bmc-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got == nil {
		t.Fatal("GetProfile returned nil for a saved profile")
	}
	if got.Password != "hunter2" {
		t.Fatalf("Password = %q, want hunter2 (plaintext store)", got.Password)
	}
	if got.Endpoint != p.Endpoint || got.Username != p.Username {
		t.Fatalf("got = %+v, want endpoint/username to match %+v", got, p)
	}
}

func TestSaveAndGetProfile_Encrypted(t *testing.T) {
	vault, err := secret.NewVault("passphrase")
	if err != nil {
		t.Fatalf("NewVault: %v", err)
	}
	s := openTestStore(t, vault)
	ctx := context.Background()

	p := &Profile{Name: "bmc-1", Endpoint: "https://10.0.0.5", Username: "admin", Password: "hunter2"}
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.GetProfile(ctx, "bmc-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Password != "hunter2" {
		t.Fatalf("Password = %q, want hunter2 after decrypt", got.Password)
	}

	// A store opened without the vault should see ciphertext, not plaintext,
	// proving the password really was sealed at rest.
	plain := openTestStoreAtSamePath(t, s)
	raw, err := plain.GetProfile(ctx, "bmc-1")
	if err != nil {
		t.Fatalf("GetProfile (no vault): %v", err)
	}
	if raw.Password == "hunter2" || raw.Password == "" {
		t.Fatalf("Password = %q, expected an opaque sealed blob", raw.Password)
	}
}

// openTestStoreAtSamePath reopens the same sqlite file src is backed by,
// without a vault, to inspect what's actually stored at rest.
func openTestStoreAtSamePath(t *testing.T, src *Store) *Store {
	t.Helper()
	row := src.conn.QueryRow(`PRAGMA database_list`)
	var seq int
	var name, file string
	if err := row.Scan(&seq, &name, &file); err != nil {
		t.Fatalf("PRAGMA database_list: %v", err)
	}
	s, err := Open(context.Background(), file, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetProfile_MissingReturnsNil(t *testing.T) {
	s := openTestStore(t, nil)
	got, err := s.GetProfile(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got != nil {
		t.Fatalf("GetProfile() = %+v, want nil", got)
	}
}

func TestListProfiles_OmitsPasswordAndSortsByName(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.SaveProfile(ctx, &Profile{Name: name, Endpoint: "https://x", Username: "admin", Password: "secret"}); err != nil {
			t.Fatalf("SaveProfile(%s): %v", name, err)
		}
	}

	profiles, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("ListProfiles() returned %d profiles, want 3", len(profiles))
	}
	wantOrder := []string{"alpha", "mid", "zeta"}
	for i, name := range wantOrder {
		if profiles[i].Name != name {
			t.Fatalf("profiles[%d].Name = %q, want %q", i, profiles[i].Name, name)
		}
		if profiles[i].Password != "" {
			t.Fatalf("ListProfiles should never populate Password, got %q", profiles[i].Password)
		}
	}
}

func TestSaveProfile_UpsertsOnConflict(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	if err := s.SaveProfile(ctx, &Profile{Name: "bmc-1", Endpoint: "https://old", Username: "admin"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := s.SaveProfile(ctx, &Profile{Name: "bmc-1", Endpoint: "https://new", Username: "root"}); err != nil {
		t.Fatalf("SaveProfile (update): %v", err)
	}

	got, err := s.GetProfile(ctx, "bmc-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Endpoint != "https://new" || got.Username != "root" {
		t.Fatalf("got = %+v, want the updated endpoint/username", got)
	}

	all, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("ListProfiles() returned %d entries, want exactly 1 after upsert", len(all))
	}
}

func TestDeleteProfile(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	if err := s.SaveProfile(ctx, &Profile{Name: "bmc-1", Endpoint: "https://x", Username: "admin"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := s.DeleteProfile(ctx, "bmc-1"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	got, err := s.GetProfile(ctx, "bmc-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got != nil {
		t.Fatal("profile should be gone after DeleteProfile")
	}

	// Deleting an already-absent profile is a no-op, not an error.
	if err := s.DeleteProfile(ctx, "bmc-1"); err != nil {
		t.Fatalf("DeleteProfile (already absent): %v", err)
	}
}

func TestRecordAndListAudit(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	records := []*AuditRecord{
		{CorrelationID: "c1", Action: "apply", Outcome: "success", Duration: 2 * time.Second},
		{CorrelationID: "c2", Action: "delete_all", Outcome: "failure", Error: "boom", Duration: 500 * time.Millisecond},
	}
	for _, r := range records {
		if err := s.RecordAudit(ctx, r); err != nil {
			t.Fatalf("RecordAudit: %v", err)
		}
	}

	got, err := s.ListAudit(ctx, 0)
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListAudit() returned %d records, want 2", len(got))
	}
	// Newest first.
	if got[0].CorrelationID != "c2" || got[1].CorrelationID != "c1" {
		t.Fatalf("ListAudit() order = [%s, %s], want [c2, c1]", got[0].CorrelationID, got[1].CorrelationID)
	}
	if got[0].Outcome != "failure" || got[0].Error != "boom" {
		t.Fatalf("got[0] = %+v, want failure/boom", got[0])
	}
	if got[0].Duration != 500*time.Millisecond {
		t.Fatalf("Duration = %v, want 500ms", got[0].Duration)
	}
}

func TestListAudit_RespectsLimit(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.RecordAudit(ctx, &AuditRecord{CorrelationID: "c", Action: "apply", Outcome: "success"}); err != nil {
			t.Fatalf("RecordAudit: %v", err)
		}
	}

	got, err := s.ListAudit(ctx, 2)
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListAudit(limit=2) returned %d records, want 2", len(got))
	}
}
