package locate

import (
	"context"
	"errors"
	"testing"

	"github.com/tsawler/deckreader/tree"
)

type gridFunc func() ([][]GridEntry, error)

func (f gridFunc) SlideGrid() ([][]GridEntry, error) { return f() }

type frameList struct {
	frames []tree.Node
	err    error
}

func (f frameList) Frames() ([]tree.Node, error) { return f.frames, f.err }

func makeSlide(id string) *tree.Group {
	return tree.NewGroup(id, id).WithSize(960, 540)
}

func staticGrid(grid [][]GridEntry) GridProvider {
	return gridFunc(func() ([][]GridEntry, error) { return grid, nil })
}

func slideIDs(refs []SlideRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Slide.ID()
	}
	return out
}

func TestLocate_Grid(t *testing.T) {
	grid := [][]GridEntry{
		{{Slide: makeSlide("a")}, {Slide: makeSlide("b")}},
		{{Slide: makeSlide("c").Hide()}, {Slide: makeSlide("d"), Meta: map[string]any{"slideNumber": 5}}},
	}
	frames := frameList{frames: []tree.Node{makeSlide("Slide 1")}}

	var reports int
	located, err := New(staticGrid(grid), frames).Locate(context.Background(), func(done, total int) {
		reports++
		if total != 4 {
			t.Errorf("progress total = %d, want 4", total)
		}
	})
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}

	if located.Strategy != StrategyGrid {
		t.Errorf("Strategy = %v, want grid", located.Strategy)
	}
	if reports == 0 {
		t.Error("expected progress reports")
	}

	want := []SlideRef{
		{SectionNumber: 1, SlideNumber: 1},
		{SectionNumber: 1, SlideNumber: 2},
		{SectionNumber: 2, SlideNumber: 5},
	}
	if got := slideIDs(located.Slides); len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "d" {
		t.Fatalf("slides = %v, want [a b d]", got)
	}
	for i, w := range want {
		got := located.Slides[i]
		if got.SectionNumber != w.SectionNumber || got.SlideNumber != w.SlideNumber {
			t.Errorf("slide %d numbering = (%d, %d), want (%d, %d)", i, got.SectionNumber, got.SlideNumber, w.SectionNumber, w.SlideNumber)
		}
	}
}

func TestLocate_Batching(t *testing.T) {
	var row []GridEntry
	for i := 0; i < 7; i++ {
		row = append(row, GridEntry{Slide: makeSlide(string(rune('a' + i)))})
	}

	var done []int
	located, err := NewWithConfig(staticGrid([][]GridEntry{row}), nil, Config{CollectSize: 3}).
		Locate(context.Background(), func(d, _ int) { done = append(done, d) })
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}

	if len(located.Slides) != 7 {
		t.Errorf("found %d slides, want 7", len(located.Slides))
	}
	if len(done) != 3 || done[0] != 3 || done[1] != 6 || done[2] != 7 {
		t.Errorf("progress = %v, want [3 6 7]", done)
	}
}

func TestLocate_Fallback(t *testing.T) {
	frames := frameList{frames: []tree.Node{
		makeSlide("Section 2 Slide 1"),
		makeSlide("Cover"),
		makeSlide("1.3"),
		makeSlide("Slide 2").Hide(),
		makeSlide("Slide 4"),
	}}

	tests := []struct {
		name        string
		grid        GridProvider
		wantErr     bool
		wantEntries int
	}{
		{"no provider", nil, false, 0},
		{"nil grid", gridFunc(func() ([][]GridEntry, error) { return nil, nil }), false, 0},
		{"empty grid", staticGrid([][]GridEntry{{}, {}}), false, 0},
		{"all hidden", staticGrid([][]GridEntry{{{Slide: makeSlide("x").Hide()}}}), false, 1},
		{"provider error", gridFunc(func() ([][]GridEntry, error) { return nil, errors.New("unsupported") }), true, 0},
		{"provider panic", gridFunc(func() ([][]GridEntry, error) { panic("host crashed") }), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			located, err := New(tt.grid, frames).Locate(context.Background(), nil)
			if err != nil {
				t.Fatalf("Locate failed: %v", err)
			}

			if located.GridEntries != tt.wantEntries {
				t.Errorf("GridEntries = %d, want %d", located.GridEntries, tt.wantEntries)
			}
			if located.Strategy != StrategyFrameNames {
				t.Errorf("Strategy = %v, want frame-names", located.Strategy)
			}
			if (located.GridErr != nil) != tt.wantErr {
				t.Errorf("GridErr = %v, wantErr %v", located.GridErr, tt.wantErr)
			}
			if located.FramesScanned != 4 {
				t.Errorf("FramesScanned = %d, want 4", located.FramesScanned)
			}

			got := slideIDs(located.Slides)
			want := []string{"Section 2 Slide 1", "1.3", "Slide 4"}
			if len(got) != len(want) {
				t.Fatalf("slides = %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("slide %d = %q, want %q", i, got[i], want[i])
				}
			}
			if s := located.Slides[2]; s.SectionNumber != 1 || s.SlideNumber != 4 {
				t.Errorf("implicit section numbering = (%d, %d)", s.SectionNumber, s.SlideNumber)
			}
		})
	}
}

func TestLocate_NothingFound(t *testing.T) {
	tests := []struct {
		name        string
		frames      FrameSource
		wantScanned int
		wantErr     bool
	}{
		{"no frame source", nil, 0, false},
		{"no frames", frameList{}, 0, false},
		{"unmatched frames", frameList{frames: []tree.Node{makeSlide("Cover"), makeSlide("Appendix")}}, 2, false},
		{"frame source error", frameList{err: errors.New("no page")}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			located, err := New(nil, tt.frames).Locate(context.Background(), nil)
			if err != nil {
				t.Fatalf("Locate failed: %v", err)
			}
			if len(located.Slides) != 0 {
				t.Errorf("expected no slides, got %v", slideIDs(located.Slides))
			}
			if located.FramesScanned != tt.wantScanned {
				t.Errorf("FramesScanned = %d, want %d", located.FramesScanned, tt.wantScanned)
			}
			if (located.FramesErr != nil) != tt.wantErr {
				t.Errorf("FramesErr = %v, wantErr %v", located.FramesErr, tt.wantErr)
			}
		})
	}
}

func TestLocate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grid := staticGrid([][]GridEntry{{{Slide: makeSlide("a")}}})
	if _, err := New(grid, nil).Locate(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStrategyString(t *testing.T) {
	if StrategyGrid.String() != "grid" || StrategyFrameNames.String() != "frame-names" || StrategyNone.String() != "none" {
		t.Error("unexpected strategy names")
	}
}
