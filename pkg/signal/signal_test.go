package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		input  string
		want   int64
		wantOK bool
	}{
		{"13", 13, true},
		{"0x1A", 26, true},
		{"0X10", 16, true},
		{"017", 15, true},
		{"0", 0, true},
		{"201103L", 201103, true},
		{"1900UL", 1900, true},
		{"(64)", 64, true},
		{" -1 ", -1, true},
		{"+7", 7, true},
		{"", 0, false},
		{"__GNUC__", 0, false},
		{"\"13.2.0\"", 0, false},
		{"1.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseInt(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetAccessors(t *testing.T) {
	s := New(map[string]string{
		"__GNUC__":      "13",
		"__linux__":     "1",
		"__VERSION__":   "\"13.2.0\"",
		"_M_IX86":       "600",
		"__empty__":     "",
		"TARGET_OS_IOS": "0",
	})

	assert.True(t, s.Defined("__GNUC__"))
	assert.False(t, s.Defined("__clang__"))
	assert.True(t, s.Any("__clang__", "__linux__"))
	assert.False(t, s.Any("__clang__", "_MSC_VER"))

	assert.Equal(t, int64(13), s.Int("__GNUC__"))
	assert.Equal(t, int64(0), s.Int("__VERSION__"))
	assert.Equal(t, int64(0), s.Int("__clang__"))

	_, ok := s.Lookup("__empty__")
	assert.False(t, ok)
	assert.True(t, s.Defined("__empty__"))

	assert.True(t, s.Equals("_M_IX86", 600))
	assert.False(t, s.Equals("_M_IX86", 500))
	assert.False(t, s.Equals("__I86__", 0))

	assert.True(t, s.True("__linux__"))
	assert.False(t, s.True("TARGET_OS_IOS"))

	v, ok := s.Value("__VERSION__")
	assert.True(t, ok)
	assert.Equal(t, "\"13.2.0\"", v)

	assert.Equal(t, 6, s.Len())
	assert.Equal(t, []string{"TARGET_OS_IOS", "_M_IX86", "__GNUC__", "__VERSION__", "__empty__", "__linux__"}, s.Names())
}

func TestSetIsImmutable(t *testing.T) {
	src := map[string]string{"__linux__": "1"}
	s := New(src)
	src["__APPLE__"] = "1"
	assert.False(t, s.Defined("__APPLE__"), "New must copy its input")

	with := s.With("__x86_64__", "1")
	assert.True(t, with.Defined("__x86_64__"))
	assert.False(t, s.Defined("__x86_64__"))

	without := with.Without("__linux__")
	assert.False(t, without.Defined("__linux__"))
	assert.True(t, with.Defined("__linux__"))

	m := s.Map()
	m["__sun"] = "1"
	assert.False(t, s.Defined("__sun"))
}

func TestSetMerge(t *testing.T) {
	a := New(map[string]string{"__APPLE__": "1", "TARGET_OS_IPHONE": "0"})
	b := New(map[string]string{"TARGET_OS_IPHONE": "1", "TARGET_OS_SIMULATOR": "1"})

	merged := a.Merge(b)
	assert.Equal(t, 3, merged.Len())
	assert.True(t, merged.True("TARGET_OS_IPHONE"))
	assert.False(t, a.True("TARGET_OS_IPHONE"))
}

func TestOf(t *testing.T) {
	s := Of("__clang__", "__GNUC__")
	assert.Equal(t, int64(1), s.Int("__clang__"))
	assert.Equal(t, int64(1), s.Int("__GNUC__"))
	assert.Equal(t, 2, s.Len())
}

func TestZeroSet(t *testing.T) {
	var s Set
	assert.False(t, s.Defined("__linux__"))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Names())
	assert.True(t, s.With("__linux__", "1").Defined("__linux__"))
}
