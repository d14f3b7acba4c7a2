package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFreshStoreDefaults(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.GetSetting("cannon_size"); err != nil || ok {
		t.Errorf("fresh store should have no settings, got ok=%v err=%v", ok, err)
	}

	def := Options{CannonSize: 10, ProjectileRadius: 3, WindRange: 10}
	opts, err := s.LoadOptions(def)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts != def {
		t.Errorf("expected defaults %+v, got %+v", def, opts)
	}

	profiles, err := s.Profiles()
	if err != nil {
		t.Fatalf("Profiles: %v", err)
	}
	if profiles[0].Name != "Player 1" || profiles[0].Color != "blue" {
		t.Errorf("unexpected slot 0 default: %+v", profiles[0])
	}
	if profiles[1].Name != "Player 2" || profiles[1].Color != "red" {
		t.Errorf("unexpected slot 1 default: %+v", profiles[1])
	}
}

func TestSettingUpsert(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSetting("wind_range", "10"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := s.SetSetting("wind_range", "25"); err != nil {
		t.Fatalf("SetSetting again: %v", err)
	}
	v, ok, err := s.GetSetting("wind_range")
	if err != nil || !ok {
		t.Fatalf("GetSetting: ok=%v err=%v", ok, err)
	}
	if v != "25" {
		t.Errorf("expected latest value 25, got %s", v)
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := Options{CannonSize: 14, ProjectileRadius: 2.5, WindRange: 18, OverlapRule: true}
	if err := s.SaveOptions(want); err != nil {
		t.Fatalf("SaveOptions: %v", err)
	}

	got, err := s.LoadOptions(Options{CannonSize: 10, ProjectileRadius: 3, WindRange: 10})
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestLoadOptionsSkipsGarbage(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSetting("cannon_size", "enormous"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := s.SetSetting("wind_range", "-4"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}

	def := Options{CannonSize: 10, ProjectileRadius: 3, WindRange: 10}
	opts, err := s.LoadOptions(def)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts != def {
		t.Errorf("unreadable values should fall back to %+v, got %+v", def, opts)
	}
}

func TestProfilesPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveProfile(1, "Ada", "gold"); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := s.SaveProfile(1, "Grace", "purple"); err != nil {
		t.Fatalf("SaveProfile upsert: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	profiles, err := s.Profiles()
	if err != nil {
		t.Fatalf("Profiles: %v", err)
	}
	if profiles[1].Name != "Grace" || profiles[1].Color != "purple" {
		t.Errorf("expected persisted upsert, got %+v", profiles[1])
	}
	if profiles[0].Name != "Player 1" {
		t.Errorf("slot 0 should keep its default, got %+v", profiles[0])
	}
}

func TestSaveProfileRejectsBadSlot(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveProfile(5, "Nobody", "white"); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	profiles, err := s.Profiles()
	if err != nil {
		t.Fatalf("Profiles: %v", err)
	}
	for _, p := range profiles {
		if p.Name == "Nobody" {
			t.Error("out-of-range slot should not be stored")
		}
	}
}
