package foundation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

func TestOption(t *testing.T) {
	t.Run("Some option", func(t *testing.T) {
		option := Some("value")
		v, ok := option.Get()
		assert.True(t, ok)
		assert.Equal(t, "value", v)
		assert.Equal(t, "value", option.UnwrapOr("fallback"))
	})

	t.Run("zero value is empty", func(t *testing.T) {
		var option Option[string]
		_, ok := option.Get()
		assert.False(t, ok)
		assert.Equal(t, "default", option.UnwrapOr("default"))
	})

	t.Run("blank value is still present", func(t *testing.T) {
		option := Some("")
		v, ok := option.Get()
		assert.True(t, ok)
		assert.Empty(t, v)
		assert.Empty(t, option.UnwrapOr("fallback"))
	})
}

func TestValidPredicates(t *testing.T) {
	cases := []struct {
		in     string
		id     bool
		str    bool
		urlish bool
	}{
		{"stable", true, true, false},
		{"stage-a_1", true, true, false},
		{"has space", false, true, false},
		{"", false, false, false},
		{"   ", false, false, false},
		{"http://x", false, true, true},
		{"https://docs.example.com/a/b.html", false, true, true},
		{"http://", false, true, false},
		{"ftp://example.com", false, true, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.id, ValidID(tc.in), "ValidID(%q)", tc.in)
		assert.Equal(t, tc.str, ValidString(tc.in), "ValidString(%q)", tc.in)
		assert.Equal(t, tc.urlish, IsURL(tc.in), "IsURL(%q)", tc.in)
	}
}

func TestCollector(t *testing.T) {
	walk := func(c *Collector) ValidationResult {
		if !c.Check(false, "distro 'a'", "blank_name", "name is blank") {
			return c.Result()
		}
		if !c.Check(true, "distro 'a'", "blank_author", "author is blank") {
			return c.Result()
		}
		c.Check(false, "distro 'a' > branch 'main'", "blank_dir", "dir is blank")
		return c.Result()
	}

	t.Run("fail fast stops at first failure", func(t *testing.T) {
		res := walk(NewCollector(true))
		require.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "blank_name", res.Errors[0].Code)
	})

	t.Run("verbose walks everything", func(t *testing.T) {
		res := walk(NewCollector(false))
		require.False(t, res.Valid)
		assert.Equal(t, []string{
			"distro 'a': name is blank",
			"distro 'a' > branch 'main': dir is blank",
		}, res.Messages())
	})

	t.Run("merge nested result", func(t *testing.T) {
		c := NewCollector(false)
		c.Merge(Invalid(NewValidationError("x", "c1", "m1"), NewValidationError("y", "c2", "m2")))
		assert.Len(t, c.Result().Errors, 2)
	})

	t.Run("empty collector is valid", func(t *testing.T) {
		assert.True(t, NewCollector(false).Result().Valid)
	})
}

func TestValidationResultToError(t *testing.T) {
	assert.NoError(t, Valid().ToError("unused"))

	err := Invalid(NewValidationError("f", "code", "broken")).ToError("config has errors")
	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryValidation, classified.Category())
	assert.Equal(t, []string{"f: broken"}, classified.Issues())
}
