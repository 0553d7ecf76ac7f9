package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_WindowCentered(t *testing.T) {
	p := New(7, 12)

	assert.True(t, p.Visible)
	assert.Equal(t, []int{5, 6, 7, 8, 9}, p.Pages)
	assert.False(t, p.Prev.Disabled)
	assert.False(t, p.Next.Disabled)
	assert.Equal(t, 6, p.Prev.Page)
	assert.Equal(t, 8, p.Next.Page)
}

func TestNew_WindowClampedAtEdges(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, New(1, 12).Pages)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, New(2, 12).Pages)
	assert.Equal(t, []int{8, 9, 10, 11, 12}, New(12, 12).Pages)
	assert.Equal(t, []int{8, 9, 10, 11, 12}, New(11, 12).Pages)
}

func TestNew_WindowAlwaysFiveWide(t *testing.T) {
	for total := 5; total <= 15; total++ {
		for cur := 1; cur <= total; cur++ {
			p := New(cur, total)
			if assert.Len(t, p.Pages, MaxVisible, "cur=%d total=%d", cur, total) {
				assert.Contains(t, p.Pages, cur)
				assert.GreaterOrEqual(t, p.Pages[0], 1)
				assert.LessOrEqual(t, p.Pages[MaxVisible-1], total)
				for i := 1; i < len(p.Pages); i++ {
					assert.Equal(t, p.Pages[i-1]+1, p.Pages[i])
				}
			}
		}
	}
}

func TestNew_FewPagesShowsAll(t *testing.T) {
	p := New(2, 3)

	assert.Equal(t, []int{1, 2, 3}, p.Pages)
}

func TestNew_SinglePageHidden(t *testing.T) {
	assert.False(t, New(1, 1).Visible)
	assert.Empty(t, New(1, 1).Pages)
	assert.False(t, New(1, 0).Visible)
}

func TestNew_JumpControls(t *testing.T) {
	first := New(1, 4)
	assert.True(t, first.First.Disabled)
	assert.True(t, first.Prev.Disabled)
	assert.False(t, first.Next.Disabled)
	assert.Equal(t, 4, first.Last.Page)

	last := New(4, 4)
	assert.False(t, last.Prev.Disabled)
	assert.True(t, last.Next.Disabled)
	assert.True(t, last.Last.Disabled)
}

func TestNew_CurrentClamped(t *testing.T) {
	p := New(30, 3)

	assert.Equal(t, 3, p.Current)
	assert.True(t, p.Next.Disabled)
}
