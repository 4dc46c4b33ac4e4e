package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/esusu/internal/models"
	"github.com/mmynk/esusu/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGroupRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := models.NewGroup("admin", "Chama", decimal.RequireFromString("1000.50"), 3, 1)
	member := models.NewMember("bob", 2)
	group.Members = append(group.Members, member)
	group.Payouts = append(group.Payouts, models.NewPayoutEntry(member.ID, 2, group.PayoutAmount()))
	group.Contributions = append(group.Contributions,
		models.NewContribution(member.ID, 1, decimal.RequireFromString("1000.50")))

	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	loaded, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}

	if loaded.Name != "Chama" || loaded.AdminID != "admin" {
		t.Errorf("group header mismatch: %+v", loaded)
	}
	if !loaded.FixedAmount.Equal(decimal.RequireFromString("1000.50")) {
		t.Errorf("fixed amount: expected 1000.50, got %s", loaded.FixedAmount)
	}
	if loaded.Version != 1 {
		t.Errorf("version: expected 1, got %d", loaded.Version)
	}
	if len(loaded.Members) != 2 {
		t.Fatalf("members: expected 2, got %d", len(loaded.Members))
	}
	// Members come back ordered by slot.
	if loaded.Members[0].Slot != 1 || loaded.Members[1].Slot != 2 {
		t.Errorf("members not ordered by slot: %+v", loaded.Members)
	}
	if len(loaded.Contributions) != 1 {
		t.Fatalf("contributions: expected 1, got %d", len(loaded.Contributions))
	}
	if !loaded.Contributions[0].Amount.Equal(decimal.RequireFromString("1000.50")) {
		t.Errorf("contribution amount mismatch: %s", loaded.Contributions[0].Amount)
	}
	if len(loaded.Payouts) != 2 {
		t.Fatalf("payouts: expected 2, got %d", len(loaded.Payouts))
	}
	if !loaded.Payouts[0].Amount.Equal(decimal.RequireFromString("3001.50")) {
		t.Errorf("payout amount: expected 3001.50, got %s", loaded.Payouts[0].Amount)
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetGroup(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveGroup_VersionConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := models.NewGroup("admin", "Chama", decimal.RequireFromString("1000"), 3, 1)
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	// Two loads of the same version; the second save must lose.
	first, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	second, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}

	first.CurrentCycle = 2
	if err := store.SaveGroup(ctx, first); err != nil {
		t.Fatalf("first SaveGroup failed: %v", err)
	}
	if first.Version != 2 {
		t.Errorf("version after save: expected 2, got %d", first.Version)
	}

	second.CurrentCycle = 3
	err = store.SaveGroup(ctx, second)
	if !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	// The winning write is intact.
	loaded, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if loaded.CurrentCycle != 2 {
		t.Errorf("current cycle: expected 2, got %d", loaded.CurrentCycle)
	}
}

func TestSaveGroup_Missing(t *testing.T) {
	store := newTestStore(t)

	group := models.NewGroup("admin", "Chama", decimal.RequireFromString("1000"), 3, 1)
	err := store.SaveGroup(context.Background(), group)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveGroup_ReplacesChildren(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := models.NewGroup("admin", "Chama", decimal.RequireFromString("1000"), 3, 1)
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	loaded, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	member := models.NewMember("bob", 2)
	loaded.Members = append(loaded.Members, member)
	loaded.Payouts = append(loaded.Payouts, models.NewPayoutEntry(member.ID, 2, loaded.PayoutAmount()))
	loaded.Members[0].Status = models.MemberLeft

	if err := store.SaveGroup(ctx, loaded); err != nil {
		t.Fatalf("SaveGroup failed: %v", err)
	}

	reloaded, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(reloaded.Members) != 2 || len(reloaded.Payouts) != 2 {
		t.Errorf("expected 2 members and 2 payouts, got %d and %d",
			len(reloaded.Members), len(reloaded.Payouts))
	}
	if reloaded.Members[0].Status != models.MemberLeft {
		t.Errorf("expected first member left, got %s", reloaded.Members[0].Status)
	}
}

func TestListGroupsByUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := models.NewGroup("admin", "First", decimal.RequireFromString("100"), 2, 1)
	member := models.NewMember("bob", 2)
	first.Members = append(first.Members, member)
	first.Payouts = append(first.Payouts, models.NewPayoutEntry(member.ID, 2, first.PayoutAmount()))
	second := models.NewGroup("bob", "Second", decimal.RequireFromString("200"), 2, 1)

	for _, g := range []*models.Group{first, second} {
		if err := store.CreateGroup(ctx, g); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
	}

	groups, err := store.ListGroupsByUser(ctx, "bob")
	if err != nil {
		t.Fatalf("ListGroupsByUser failed: %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(groups))
	}

	groups, err = store.ListGroupsByUser(ctx, "stranger")
	if err != nil {
		t.Fatalf("ListGroupsByUser failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected 0 groups, got %d", len(groups))
	}
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Errorf("expected user %s, got %+v", user.ID, byEmail)
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID == nil || byID.Email != "alice@example.com" {
		t.Errorf("expected alice, got %+v", byID)
	}

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing user, got %+v", missing)
	}

	// Emails are unique.
	dup := models.NewUser("alice@example.com", "Imposter", "hash")
	if err := store.CreateUser(ctx, dup); err == nil {
		t.Error("expected unique constraint error for duplicate email")
	}
}
