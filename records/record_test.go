package records_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reduction.dev/csvsort/records"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int64
	}{
		{name: "first of several fields", line: "3, data3", want: 3},
		{name: "single field", line: "42", want: 42},
		{name: "negative", line: "-7,x", want: -7},
		{name: "explicit plus sign", line: "+5,x", want: 5},
		{name: "empty trailing fields", line: "10,,", want: 10},
		{name: "large value", line: "9000000000,big", want: 9000000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := records.ParseKey(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestParseKey_Invalid(t *testing.T) {
	for _, line := range []string{"abc, data", "", ",1", " 3,x", "3 ,x", "1.5,x"} {
		t.Run(strconv.Quote(line), func(t *testing.T) {
			_, err := records.ParseKey(line)
			var parseErr *records.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, line, parseErr.Line)
			assert.ErrorIs(t, err, strconv.ErrSyntax)
		})
	}
}

func TestParseError_MessageIncludesLineNumber(t *testing.T) {
	err := &records.ParseError{LineNumber: 4, Line: "abc, data", Err: strconv.ErrSyntax}
	assert.Equal(t, `line 4: invalid sort key in "abc, data": invalid syntax`, err.Error())
}

func TestNew(t *testing.T) {
	r, err := records.New("2, data2")
	require.NoError(t, err)
	assert.Equal(t, records.Record{Key: 2, Line: "2, data2"}, r)

	_, err = records.New("x,1")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	a := records.Record{Key: 1, Line: "1,b"}
	b := records.Record{Key: 2, Line: "2,a"}
	assert.Negative(t, records.Compare(a, b))
	assert.Positive(t, records.Compare(b, a))
	assert.Zero(t, records.Compare(a, records.Record{Key: 1, Line: "1,z"}))
}
