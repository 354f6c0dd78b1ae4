package split

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "<alice> ", Label("alice", false))
	assert.Equal(t, "<a\u200dlice> ", Label("alice", true))
	assert.Equal(t, "<é\u200dmile> ", Label("émile", true))
	assert.Equal(t, "", Label("", true))
}

func TestBudget(t *testing.T) {
	self := Self{Nick: "relay", User: "~relay", Host: "example.org"}
	// hostmask 11, nick 5, full hostmask 18
	expected := FrameLength - (11 + 5 + 18) - (len("#chan") + len("<bob> ") + Padding)
	assert.Equal(t, expected, Budget(self, "#chan", "<bob> "))
}

func TestBudgetIsPessimisticUntilDiscovered(t *testing.T) {
	known := Budget(Self{Nick: "relay", User: "~relay", Host: "example.org"}, "#chan", "<bob> ")
	unknown := Budget(Self{Nick: "relay"}, "#chan", "<bob> ")
	assert.Less(t, unknown, known)
	assert.Greater(t, unknown, 0)
}

func TestLinesShort(t *testing.T) {
	assert.Equal(t, []string{"<bob> hello world"}, Lines("<bob> ", "hello world", 100))
}

func TestLinesEmpty(t *testing.T) {
	assert.Empty(t, Lines("<bob> ", "", 100))
	assert.Empty(t, Lines("<bob> ", "  \r\n\n  ", 100))
}

func TestLinesNewlineBoundary(t *testing.T) {
	assert.Equal(t, []string{"<bob> a", "<bob> b"}, Lines("<bob> ", "a\nb", 100))
	assert.Equal(t, []string{"<bob> a", "<bob> b"}, Lines("<bob> ", "a\r\n\r\nb", 100))
}

func TestLinesWordBoundary(t *testing.T) {
	assert.Equal(t,
		[]string{"aaa bbb", "ccc ddd"},
		Lines("", "aaa bbb ccc ddd", 10),
	)
	// exact fit followed by a space keeps the last word
	assert.Equal(t,
		[]string{"aaaa bbbbb", "cc"},
		Lines("", "aaaa bbbbb cc", 10),
	)
}

func TestLinesLongWord(t *testing.T) {
	assert.Equal(t,
		[]string{"abcd", "efgh", "ij"},
		Lines("", "abcdefghij", 4),
	)
}

func TestLinesRuneBoundary(t *testing.T) {
	// each é is two bytes, a budget of 3 bytes can only hold one
	lines := Lines("", "ééé", 3)
	assert.Equal(t, []string{"é", "é", "é"}, lines)
}

func TestLinesNonPositiveBudget(t *testing.T) {
	assert.Equal(t, []string{"<x> a", "<x> b", "<x> c"}, Lines("<x> ", "abc", 0))
	assert.Equal(t, []string{"<x> a", "<x> b"}, Lines("<x> ", "a b", -50))
}

func TestLinesProperties(t *testing.T) {
	body := "The quick brown fox jumps over the lazy dog and then keeps running " +
		"until it reaches the river bank where it finally stops to rest"
	label := "<carol> "

	for budget := 8; budget < 120; budget += 7 {
		lines := Lines(label, body, budget)
		require.NotEmpty(t, lines)

		var words []string
		for _, line := range lines {
			require.True(t, strings.HasPrefix(line, label))
			text := strings.TrimPrefix(line, label)
			assert.LessOrEqual(t, len(text), budget, "budget %d", budget)
			assert.NotEmpty(t, strings.TrimSpace(text))
			words = append(words, strings.TrimSpace(text))
		}
		assert.Equal(t, body, strings.Join(words, " "), "budget %d", budget)
	}
}
