package book

import (
	"sort"
	"strings"
)

// CategoryDelimiter 分类在存储中的分隔符
const CategoryDelimiter = ","

// Categories 图书分类标签集合
// 语义上是集合(无序、不重复),内部始终保持升序,便于比较和输出
type Categories []string

// NewCategories 由标签列表构建集合(去空白、去重、排序)
func NewCategories(labels ...string) Categories {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		set[label] = struct{}{}
	}
	return fromSet(set)
}

// ParseCategories 解析存储格式("小说,科幻")
func ParseCategories(stored string) Categories {
	if stored == "" {
		return Categories{}
	}
	return NewCategories(strings.Split(stored, CategoryDelimiter)...)
}

// String 转换为存储格式
func (c Categories) String() string {
	return strings.Join(c, CategoryDelimiter)
}

// Contains 是否包含某个标签
func (c Categories) Contains(label string) bool {
	i := sort.SearchStrings(c, label)
	return i < len(c) && c[i] == label
}

// Toggle 逐个切换标签:不存在则加入,已存在则移除
// 同一个标签出现两次等于没有改动
func (c Categories) Toggle(labels []string) Categories {
	set := make(map[string]struct{}, len(c)+len(labels))
	for _, label := range c {
		set[label] = struct{}{}
	}
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if _, ok := set[label]; ok {
			delete(set, label)
			continue
		}
		set[label] = struct{}{}
	}
	return fromSet(set)
}

func fromSet(set map[string]struct{}) Categories {
	out := make(Categories, 0, len(set))
	for label := range set {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
