package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCategories(t *testing.T) {
	c := NewCategories(" 科幻 ", "小说", "科幻", "")
	assert.Equal(t, Categories{"小说", "科幻"}, c)
	assert.Equal(t, "小说,科幻", c.String())
}

func TestParseCategories(t *testing.T) {
	assert.Equal(t, Categories{"a", "b"}, ParseCategories("b,a,b"))
	assert.Empty(t, ParseCategories(""))
}

func TestCategories_Toggle(t *testing.T) {
	original := NewCategories("小说", "科幻")

	t.Run("不存在则加入,存在则移除", func(t *testing.T) {
		got := original.Toggle([]string{"历史", "科幻"})
		assert.Equal(t, Categories{"历史", "小说"}, got)
	})

	t.Run("同一标签切换两次还原", func(t *testing.T) {
		once := original.Toggle([]string{"历史"})
		twice := once.Toggle([]string{"历史"})
		assert.Equal(t, original, twice)
	})

	t.Run("不修改原集合", func(t *testing.T) {
		_ = original.Toggle([]string{"小说"})
		assert.True(t, original.Contains("小说"))
	})
}
