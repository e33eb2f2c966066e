package words

import (
	"testing"

	"github.com/jx06T/ectts3/internal/storage"
)

func testLibrary(t *testing.T) *Library {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewLibrary(store)
}

func TestSetsSeedsSampleSet(t *testing.T) {
	l := testLibrary(t)

	sets, err := l.Sets()
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 || sets[0].ID != "test-samples" {
		t.Fatalf("seeded sets = %+v", sets)
	}

	ws, err := l.Words(sets[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) == 0 {
		t.Error("sample set has no words")
	}
	for _, w := range ws {
		if !w.Selected {
			t.Errorf("sample word not selected: %+v", w)
		}
	}
}

func TestSaveAndLoadWords(t *testing.T) {
	l := testLibrary(t)

	ws := []Word{New("alpha", "一"), New("bravo", "二")}
	if err := l.SaveWords("my-set", ws); err != nil {
		t.Fatal(err)
	}

	got, err := l.Words("my-set")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].English != "alpha" || got[1].Chinese != "二" {
		t.Errorf("loaded = %+v", got)
	}
}

func TestWordsMissingSet(t *testing.T) {
	l := testLibrary(t)
	ws, err := l.Words("nope")
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) != 0 {
		t.Errorf("missing set yielded %+v", ws)
	}
}

func TestCreateAndDeleteSet(t *testing.T) {
	l := testLibrary(t)
	if _, err := l.Sets(); err != nil {
		t.Fatal(err)
	}

	s, err := l.CreateSet("Unit 4", "exam")
	if err != nil {
		t.Fatal(err)
	}
	if s.ID == "" || s.Title != "Unit 4" {
		t.Fatalf("created set = %+v", s)
	}

	sets, err := l.Sets()
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 {
		t.Fatalf("set count = %d, want 2", len(sets))
	}

	tags, err := l.TagMap()
	if err != nil {
		t.Fatal(err)
	}
	if len(tags["exam"]) != 1 || tags["exam"][0] != s.ID {
		t.Errorf("tag map = %v", tags)
	}

	if err := l.DeleteSet(s.ID); err != nil {
		t.Fatal(err)
	}
	sets, err = l.Sets()
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 {
		t.Errorf("set count after delete = %d, want 1", len(sets))
	}
	ws, err := l.Words(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) != 0 {
		t.Errorf("deleted set still has words: %+v", ws)
	}
}

func TestRenameSet(t *testing.T) {
	l := testLibrary(t)
	s, err := l.CreateSet("Draft")
	if err != nil {
		t.Fatal(err)
	}

	if err := l.RenameSet(s.ID, "Unit 1"); err != nil {
		t.Fatal(err)
	}
	sets, err := l.Sets()
	if err != nil {
		t.Fatal(err)
	}
	var got string
	for _, it := range sets {
		if it.ID == s.ID {
			got = it.Title
		}
	}
	if got != "Unit 1" {
		t.Errorf("title = %q, want Unit 1", got)
	}

	if err := l.RenameSet("missing", "whatever"); err != nil {
		t.Errorf("renaming unknown id: %v", err)
	}
}

func TestAppStateRoundTrip(t *testing.T) {
	l := testLibrary(t)

	st := l.State()
	if !st.ShowEnglish || !st.ShowChinese || st.OnlyPlayUnDone {
		t.Errorf("default state = %+v", st)
	}

	st.OnlyPlayUnDone = true
	st.Shuffle = true
	l.SaveState(st)

	got := l.State()
	if !got.OnlyPlayUnDone || !got.Shuffle {
		t.Errorf("reloaded state = %+v", got)
	}
}

func TestNewWordTrimsAndSelects(t *testing.T) {
	w := New("  apple ", " 蘋果  ")
	if w.English != "apple" || w.Chinese != "蘋果" {
		t.Errorf("word = %+v", w)
	}
	if !w.Selected || w.Done || w.ID == "" {
		t.Errorf("word defaults = %+v", w)
	}
}
