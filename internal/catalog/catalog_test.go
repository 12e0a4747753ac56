package catalog

import "testing"

func TestAll_AscendingOrder(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("expected at least one catalog")
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("catalogs out of order: %d before %d", all[i-1].ID, all[i].ID)
		}
	}
}

func TestValidAndName(t *testing.T) {
	for _, c := range All() {
		if !Valid(c.ID) {
			t.Errorf("expected id %d to be valid", c.ID)
		}
		if Name(c.ID) != c.Name {
			t.Errorf("expected name %q for id %d, got %q", c.Name, c.ID, Name(c.ID))
		}
	}

	if Valid(0) {
		t.Error("expected id 0 to be invalid")
	}
	if Valid(999) {
		t.Error("expected id 999 to be invalid")
	}
	if Name(999) != "" {
		t.Errorf("expected empty name for unknown id, got %q", Name(999))
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	first := All()
	first[0].Name = "mutated"
	if All()[0].Name == "mutated" {
		t.Error("expected All to return a fresh slice")
	}
}
