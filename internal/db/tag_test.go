package db

import "testing"

func TestTagNameKey(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: " Go ", want: "go"},
		{in: "Éclair", want: "éclair"},
		{in: "ÉCLAIR", want: "éclair"},
		{in: "Straße", want: "straße"},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := TagNameKey(tc.in); got != tc.want {
			t.Fatalf("TagNameKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMigrateBackfillsTagNameKeys(t *testing.T) {
	gdb := setupUserTestDB(t)

	if err := gdb.Exec("INSERT INTO tags (name, slug, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)", "Éclair", "eclair").Error; err != nil {
		t.Fatalf("insert legacy tag: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var tag Tag
	if err := gdb.Where("slug = ?", "eclair").First(&tag).Error; err != nil {
		t.Fatalf("load tag: %v", err)
	}
	if tag.NameKey != "éclair" {
		t.Fatalf("expected backfilled name key, got %q", tag.NameKey)
	}
}
