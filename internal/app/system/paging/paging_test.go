package paging

import (
	"testing"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLimitPlusOne(t *testing.T) {
	want := int64(PageSize + 1)
	got := LimitPlusOne()
	if got != want {
		t.Errorf("LimitPlusOne() = %d, want %d", got, want)
	}
}

func TestTrimPage(t *testing.T) {
	tests := []struct {
		name       string
		rows       []int
		before     string
		after      string
		wantLen    int
		wantResult Result
	}{
		{
			name:       "first page with no extra",
			rows:       []int{1, 2, 3},
			wantLen:    3,
			wantResult: Result{HasPrev: false, HasNext: false},
		},
		{
			name:       "first page with extra (has next)",
			rows:       make([]int, PageSize+1),
			wantLen:    PageSize,
			wantResult: Result{HasPrev: false, HasNext: true},
		},
		{
			name:       "forward page with extra",
			rows:       make([]int, PageSize+1),
			after:      "cursor123",
			wantLen:    PageSize,
			wantResult: Result{HasPrev: true, HasNext: true},
		},
		{
			name:       "forward page without extra",
			rows:       []int{1, 2, 3},
			after:      "cursor123",
			wantLen:    3,
			wantResult: Result{HasPrev: true, HasNext: false},
		},
		{
			name:       "backward page with extra",
			rows:       make([]int, PageSize+1),
			before:     "cursor123",
			wantLen:    PageSize,
			wantResult: Result{HasPrev: true, HasNext: true},
		},
		{
			name:       "backward page without extra",
			rows:       []int{1, 2, 3},
			before:     "cursor123",
			wantLen:    3,
			wantResult: Result{HasPrev: false, HasNext: true},
		},
		{
			name:       "empty rows",
			rows:       []int{},
			wantLen:    0,
			wantResult: Result{HasPrev: false, HasNext: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := tt.rows
			got := TrimPage(&rows, tt.before, tt.after)
			if len(rows) != tt.wantLen {
				t.Errorf("rows length = %d, want %d", len(rows), tt.wantLen)
			}
			if got != tt.wantResult {
				t.Errorf("TrimPage() = %+v, want %+v", got, tt.wantResult)
			}
		})
	}
}

func TestTrimPage_BackwardDropsFirst(t *testing.T) {
	rows := make([]int, 0, PageSize+1)
	for i := 0; i <= PageSize; i++ {
		rows = append(rows, i)
	}
	TrimPage(&rows, "cursor", "")
	if rows[0] != 1 {
		t.Errorf("first element = %d, want 1 (oldest row trimmed)", rows[0])
	}
}

func TestConfigureKeyset(t *testing.T) {
	cfg := ConfigureKeyset("", "")
	if cfg.Direction != Forward || cfg.SortOrder != 1 || cfg.Cursor != nil {
		t.Errorf("first page config = %+v, want forward/asc/no cursor", cfg)
	}

	id := primitive.NewObjectID()
	enc := wafflemongo.EncodeCursor("tanaka tarou", id)

	cfg = ConfigureKeyset(enc, "")
	if cfg.Direction != Backward || cfg.SortOrder != -1 {
		t.Errorf("before config = %+v, want backward/desc", cfg)
	}
	if cfg.Cursor == nil {
		t.Fatal("expected cursor to decode")
	}
	if cfg.Cursor.CI != "tanaka tarou" || cfg.Cursor.ID != id {
		t.Errorf("cursor = %+v, want CI=tanaka tarou ID=%s", cfg.Cursor, id.Hex())
	}

	cfg = ConfigureKeyset("", enc)
	if cfg.Direction != Forward || cfg.SortOrder != 1 {
		t.Errorf("after config = %+v, want forward/asc", cfg)
	}
	if cfg.Cursor == nil {
		t.Fatal("expected cursor to decode")
	}
}

func TestReverse(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	Reverse(rows)
	want := []int{4, 3, 2, 1}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("Reverse() = %v, want %v", rows, want)
		}
	}
}

func TestBuildCursors_Empty(t *testing.T) {
	prev, next := BuildCursors(nil, func(int) string { return "" }, func(int) primitive.ObjectID { return primitive.NilObjectID })
	if prev != "" || next != "" {
		t.Errorf("BuildCursors(nil) = %q, %q, want empty strings", prev, next)
	}
}
