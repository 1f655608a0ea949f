package exam

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowOf returns k space separated values 1..k
func rowOf(k int) string {
	vals := make([]string, k)
	for i := range vals {
		vals[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(vals, " ")
}

func TestBuildRow_LeftPadding(t *testing.T) {
	for k := 1; k <= GridCols; k++ {
		t.Run("k="+strconv.Itoa(k), func(t *testing.T) {
			row, err := BuildRow(rowOf(k), EyeLeft)
			require.NoError(t, err)

			lead := (GridCols - k) / 2
			for i := 0; i < GridCols; i++ {
				switch {
				case i < lead:
					assert.Zero(t, row[i], "leading column %d", i)
				case i < lead+k:
					assert.Equal(t, i-lead+1, row[i], "value column %d", i)
				default:
					assert.Zero(t, row[i], "trailing column %d", i)
				}
			}
		})
	}
}

func TestBuildRow_RightPadding(t *testing.T) {
	for k := 1; k <= GridCols; k++ {
		t.Run("k="+strconv.Itoa(k), func(t *testing.T) {
			left, err := BuildRow(rowOf(k), EyeLeft)
			require.NoError(t, err)
			right, err := BuildRow(rowOf(k), EyeRight)
			require.NoError(t, err)

			if k == GridCols {
				assert.Equal(t, left, right)
				return
			}
			lead := (GridCols-k)/2 + 1
			for i := 0; i < lead; i++ {
				assert.Zero(t, right[i], "leading column %d", i)
			}
			// the right row is the left row shifted by one column
			for i := 0; i < GridCols-1; i++ {
				assert.Equal(t, left[i], right[i+1], "column %d", i)
			}
		})
	}
}

func TestBuildRow_Examples(t *testing.T) {
	tests := []struct {
		name string
		text string
		eye  Eye
		want Row
	}{
		{"left four", "21 22 23 24", EyeLeft, Row{0, 0, 21, 22, 23, 24, 0, 0, 0}},
		{"right four", "21 22 23 24", EyeRight, Row{0, 0, 0, 21, 22, 23, 24, 0, 0}},
		{"left eight", "1 2 3 4 5 6 7 8", EyeLeft, Row{1, 2, 3, 4, 5, 6, 7, 8, 0}},
		{"right eight", "1 2 3 4 5 6 7 8", EyeRight, Row{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"below threshold", "<0 5 <0", EyeLeft, Row{0, 0, 0, 0, 5, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildRow(tt.text, tt.eye)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildRow_Errors(t *testing.T) {
	_, err := BuildRow("1 2 <1", EyeLeft)
	assert.ErrorIs(t, err, ErrInvalidNumber)
	assert.True(t, IsType(err, ErrorTypeConversion))

	_, err = BuildRow("", EyeLeft)
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = BuildRow(rowOf(10), EyeLeft)
	assert.ErrorIs(t, err, ErrRowTooWide)

	_, err = BuildRow(rowOf(3), Eye("both"))
	assert.ErrorIs(t, err, ErrInvalidEye)
	assert.True(t, IsType(err, ErrorTypeInvalidArgument))
}

func TestBuildGrid(t *testing.T) {
	lines := reportLines("OS", []string{
		"1 2 3 4", "1 2 3 4 5 6", "1 2 3 4 5 6 7 8", "1 2 3 4 5 6 7 8",
		"1 2 3 4 5 6 7 8", "1 2 3 4 5 6 7 8", "1 2 3 4 5 6", "<0 2 3 4",
	})

	g, err := BuildGrid(lines, EyeLeft)
	require.NoError(t, err)
	assert.Equal(t, Row{0, 0, 1, 2, 3, 4, 0, 0, 0}, g[0])
	assert.Equal(t, Row{0, 1, 2, 3, 4, 5, 6, 0, 0}, g[1])
	assert.Equal(t, Row{0, 0, 0, 2, 3, 4, 0, 0, 0}, g[7])

	_, err = BuildGrid(lines[:21], EyeLeft)
	assert.ErrorIs(t, err, ErrLineOutOfRange)

	_, err = BuildGrid(lines, Eye(""))
	assert.ErrorIs(t, err, ErrInvalidEye)
}

func TestGrid_StringRoundTrip(t *testing.T) {
	rec, err := Parse(reportLines("OS LEFT EYE", []string{
		"<0 2 3 4", "1 2 3 4 5 6", "1 2 3 4 5 6 7 8", "10 20 30 31 32 33 34 35",
		"1 2 3 4 5 6 7 8", "1 2 3 4 5 6 7 8", "1 2 3 4 5 6", "9 9 9 9",
	}))
	require.NoError(t, err)

	text := rec.Grid().String()
	assert.Equal(t, GridRows, strings.Count(text, "\n")+1)

	back, err := ParseGridText(text)
	require.NoError(t, err)
	assert.Equal(t, rec.Grid(), back)
}

func TestParseGridText_Errors(t *testing.T) {
	_, err := ParseGridText("[[1 2 3]]")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	var g Grid
	bad := strings.Replace(g.String(), "0", "x", 1)
	_, err = ParseGridText(bad)
	assert.ErrorIs(t, err, ErrInvalidNumber)
}
