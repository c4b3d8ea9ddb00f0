package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    string
		want    string
		wantErr bool
	}{
		{name: "upper", code: "EUR", want: "EUR"},
		{name: "lower_and_space", code: " usd ", want: "USD"},
		{name: "unknown", code: "QQQ", wantErr: true},
		{name: "too_long", code: "EURO", wantErr: true},
		{name: "empty", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := Parse(tt.code)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Code)
			assert.Equal(t, tt.want, r.Unit.String())
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	records, err := ParseAll([]string{"gbp", "AUD", "GBP", "cad"})
	require.NoError(t, err)
	var codes []string
	for _, r := range records {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []string{"GBP", "AUD", "CAD"}, codes)

	_, err = ParseAll([]string{"AUD", "XYZW"})
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestRandomDeterministic(t *testing.T) {
	t.Parallel()

	a := Random(7, 12)
	b := Random(7, 12)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
	assert.LessOrEqual(t, len(a), 12)

	seen := map[string]bool{}
	for _, r := range a {
		assert.False(t, seen[r.Code], "duplicate %s", r.Code)
		seen[r.Code] = true
	}
}
