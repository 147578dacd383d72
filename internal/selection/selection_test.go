package selection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectAllThenDeselectOne(t *testing.T) {
	s := New[string]()
	s.SetRows([]string{"a", "b", "c"})

	s.SelectAll()
	assert.True(t, s.SelectedAll())
	assert.True(t, s.SelectedAny())

	s.DeselectOne("b")
	assert.False(t, s.SelectedAll())
	assert.True(t, s.SelectedAny())
	assert.Equal(t, []string{"a", "c"}, s.Selected())
}

func TestEmptyRows(t *testing.T) {
	s := New[int]()
	s.SetRows(nil)
	s.SelectAll()
	assert.False(t, s.SelectedAll(), "nothing loaded is never all selected")
	assert.False(t, s.SelectedAny())
}

func TestSetRowsClearsSelection(t *testing.T) {
	s := New[string]()
	s.SetRows([]string{"a", "b"})
	s.SelectOne("a")
	s.SetRows([]string{"a", "b"})
	assert.False(t, s.SelectedAny(), "a reload never carries selection over")
}

func TestSelectOneIgnoresUnloaded(t *testing.T) {
	s := New[string]()
	s.SetRows([]string{"a"})
	s.SelectOne("zzz")
	assert.False(t, s.IsSelected("zzz"))
	assert.False(t, s.SelectedAny())
}

func TestDeselectOneIsIdempotent(t *testing.T) {
	s := New[string]()
	s.SetRows([]string{"a", "b"})
	s.SelectOne("a")
	s.DeselectOne("a")
	s.DeselectOne("a")
	s.DeselectOne("b")
	assert.Equal(t, 0, s.Len())
}

func TestDuplicateRowIDs(t *testing.T) {
	s := New[int]()
	// A match appears once per participant; its id is kept once.
	s.SetRows([]int{7, 7, 8, 8})
	s.SelectOne(7)
	s.SelectOne(8)
	assert.True(t, s.SelectedAll())
	assert.Equal(t, []int{7, 8}, s.Selected())
}

func TestToggle(t *testing.T) {
	s := New[string]()
	s.SetRows([]string{"a"})
	s.Toggle("a")
	assert.True(t, s.IsSelected("a"))
	s.Toggle("a")
	assert.False(t, s.IsSelected("a"))
}

func TestSelectedAllMatchesDefinition(t *testing.T) {
	rows := []string{"a", "b", "c", "d"}
	ops := []func(s *Set[string]){
		func(s *Set[string]) { s.SelectOne("a") },
		func(s *Set[string]) { s.SelectAll() },
		func(s *Set[string]) { s.DeselectOne("c") },
		func(s *Set[string]) { s.SelectOne("c") },
		func(s *Set[string]) { s.DeselectAll() },
		func(s *Set[string]) { s.SelectOne("d"); s.SelectOne("b"); s.SelectOne("a"); s.SelectOne("c") },
	}
	s := New[string]()
	s.SetRows(rows)
	for _, op := range ops {
		op(s)
		assert.Equal(t, s.Len() == len(rows), s.SelectedAll())
		for _, id := range s.Selected() {
			assert.Contains(t, rows, id)
		}
	}
}

func TestConcurrentUse(t *testing.T) {
	s := New[int]()
	s.SetRows([]int{1, 2, 3, 4, 5})
	var wg sync.WaitGroup
	for i := 1; i <= 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.SelectOne(id)
			_ = s.SelectedAll()
		}(i)
	}
	wg.Wait()
	assert.True(t, s.SelectedAll())
}
