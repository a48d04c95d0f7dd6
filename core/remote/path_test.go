package remote_test

import (
	"testing"

	"storectl/core/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("AliasAndBucket", func(t *testing.T) {
		p, err := remote.Parse("local/assets")
		require.NoError(t, err)
		assert.Equal(t, "local", p.Alias)
		assert.Equal(t, "assets", p.Bucket)
		assert.Empty(t, p.Key)
	})

	t.Run("WithPrefix", func(t *testing.T) {
		p, err := remote.Parse("prod/backups/2026/08/")
		require.NoError(t, err)
		assert.Equal(t, "prod", p.Alias)
		assert.Equal(t, "backups", p.Bucket)
		assert.Equal(t, "2026/08/", p.Key)
	})

	t.Run("SingleObject", func(t *testing.T) {
		p, err := remote.Parse("local/assets/logo.png")
		require.NoError(t, err)
		assert.Equal(t, "logo.png", p.Key)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, raw := range []string{"", "  ", "onlyalias", "alias/", "/bucket/key", "//"} {
			_, err := remote.Parse(raw)
			assert.Error(t, err, "raw=%q", raw)
		}
	})
}

func TestPathJoin(t *testing.T) {
	cases := []struct {
		name     string
		key      string
		relative string
		want     string
	}{
		{"EmptyPrefix", "", "a.txt", "a.txt"},
		{"TrailingSlash", "backup/", "a.txt", "backup/a.txt"},
		{"NoTrailingSlash", "backup", "a.txt", "backup/a.txt"},
		{"NestedRelative", "backup/", "dir/a.txt", "backup/dir/a.txt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := remote.Path{Alias: "x", Bucket: "b", Key: tc.key}
			assert.Equal(t, tc.want, p.Join(tc.relative))
		})
	}
}

func TestPathString(t *testing.T) {
	p := remote.Path{Alias: "local", Bucket: "assets", Key: "img/"}
	assert.Equal(t, "local/assets/img/", p.String())

	p2 := remote.Path{Alias: "local", Bucket: "assets"}
	assert.Equal(t, "local/assets", p2.String())
}
