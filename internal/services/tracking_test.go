package services

import (
	"testing"

	"gorm.io/gorm"
)

func TestFilterWithoutProfileTracksEverything(t *testing.T) {
	f, err := NewTrackingFilter(newTestDB(t))
	if err != nil {
		t.Fatalf("NewTrackingFilter failed: %v", err)
	}
	if !f.IsItemTracked(12345) || !f.IsCurrencyTracked(1) {
		t.Error("with no active profile everything must be tracked")
	}
	if f.ActiveProfileID() != 0 {
		t.Errorf("expected active profile id 0, got %d", f.ActiveProfileID())
	}
}

func TestFilterByProfileLists(t *testing.T) {
	f, err := NewTrackingFilter(newTestDB(t))
	if err != nil {
		t.Fatalf("NewTrackingFilter failed: %v", err)
	}
	profile, err := f.Create("ore runs")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.Update(profile.ID, "ore runs", []int{1, 2}, []int{3}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if !f.IsItemTracked(1) || !f.IsItemTracked(2) {
		t.Error("listed items must be tracked")
	}
	if f.IsItemTracked(3) {
		t.Error("unlisted item must not be tracked")
	}
	if !f.IsCurrencyTracked(3) {
		t.Error("listed currency must be tracked")
	}
	if f.IsCurrencyTracked(1) {
		t.Error("unlisted currency must not be tracked")
	}
}

func TestFilterEmptyListMeansTrackAll(t *testing.T) {
	f, err := NewTrackingFilter(newTestDB(t))
	if err != nil {
		t.Fatalf("NewTrackingFilter failed: %v", err)
	}
	profile, err := f.Create("items only")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.Update(profile.ID, "items only", []int{77}, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// An empty currency list does not mean "no currencies": it means the
	// profile places no restriction on currencies at all.
	if !f.IsCurrencyTracked(1) || !f.IsCurrencyTracked(99) {
		t.Error("empty currency list must track all currencies")
	}
	if f.IsItemTracked(1) {
		t.Error("item list still applies")
	}
}

func TestFilterCreateActivatesAndDeactivatesPrevious(t *testing.T) {
	db := newTestDB(t)
	f, err := NewTrackingFilter(db)
	if err != nil {
		t.Fatalf("NewTrackingFilter failed: %v", err)
	}
	first, err := f.Create("first")
	if err != nil {
		t.Fatalf("Create first failed: %v", err)
	}
	second, err := f.Create("second")
	if err != nil {
		t.Fatalf("Create second failed: %v", err)
	}

	if f.ActiveProfileID() != second.ID {
		t.Errorf("expected newest profile %d active, got %d", second.ID, f.ActiveProfileID())
	}
	profiles, err := f.Profiles()
	if err != nil {
		t.Fatalf("Profiles failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	for _, p := range profiles {
		if p.ID == first.ID && p.Active {
			t.Error("previous profile must be deactivated in the database")
		}
	}
}

func TestFilterSetActiveAndClear(t *testing.T) {
	f, err := NewTrackingFilter(newTestDB(t))
	if err != nil {
		t.Fatalf("NewTrackingFilter failed: %v", err)
	}
	first, err := f.Create("first")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.Create("second"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := f.SetActive(first.ID); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if f.ActiveProfileID() != first.ID {
		t.Errorf("expected profile %d active, got %d", first.ID, f.ActiveProfileID())
	}

	if err := f.SetActive(0); err != nil {
		t.Fatalf("SetActive(0) failed: %v", err)
	}
	if f.ActiveProfileID() != 0 {
		t.Error("SetActive(0) must clear the selection")
	}
	if !f.IsItemTracked(999) {
		t.Error("cleared selection must track everything again")
	}

	if err := f.SetActive(9999); err != gorm.ErrRecordNotFound {
		t.Errorf("activating an unknown profile: expected ErrRecordNotFound, got %v", err)
	}
}

func TestFilterReloadsActiveFromDatabase(t *testing.T) {
	db := newTestDB(t)
	f, err := NewTrackingFilter(db)
	if err != nil {
		t.Fatalf("NewTrackingFilter failed: %v", err)
	}
	profile, err := f.Create("persisted")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.Update(profile.ID, "persisted", []int{42}, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// A fresh filter over the same database picks up the active profile.
	reloaded, err := NewTrackingFilter(db)
	if err != nil {
		t.Fatalf("NewTrackingFilter reload failed: %v", err)
	}
	if reloaded.ActiveProfileID() != profile.ID {
		t.Errorf("expected reloaded active profile %d, got %d", profile.ID, reloaded.ActiveProfileID())
	}
	if !reloaded.IsItemTracked(42) || reloaded.IsItemTracked(43) {
		t.Error("reloaded filter must apply the persisted item list")
	}
}

func TestFilterDeleteActiveRevertsToTrackAll(t *testing.T) {
	f, err := NewTrackingFilter(newTestDB(t))
	if err != nil {
		t.Fatalf("NewTrackingFilter failed: %v", err)
	}
	profile, err := f.Create("short lived")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := f.Update(profile.ID, "short lived", []int{1}, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if f.IsItemTracked(2) {
		t.Fatal("filter not applied before delete")
	}

	if err := f.Delete(profile.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !f.IsItemTracked(2) {
		t.Error("deleting the active profile must revert to track-all")
	}
	if err := f.Delete(profile.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("deleting twice: expected ErrRecordNotFound, got %v", err)
	}
}
