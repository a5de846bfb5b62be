package geochip

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// 类别ID -> 类别名
type ClassMap map[int]string

func (m ClassMap) Name(id int) string {
	if name, ok := m[id]; ok {
		return name
	}
	return strconv.Itoa(id)
}

// 按名称查找类别ID
func (m ClassMap) ID(name string) (id int, ok bool) {
	for _, k := range m.IDs() {
		if m[k] == name {
			return k, true
		}
	}
	return
}

func (m ClassMap) IDs() []int {
	ids := make([]int, 0, len(m))
	for k := range m {
		ids = append(ids, k)
	}
	sort.Ints(ids)
	return ids
}

// 属性Property等于Value时取ClassID
type ClassRule struct {
	Property string
	Value    string
	ClassID  int
}

type ClassInferenceOptions struct {
	ClassIDProperty string // 默认 class_id
	Rules           []ClassRule
	ClassMap        ClassMap // 按 class_name 属性反查
	DefaultClassID  *int
	InferDefault    bool // ClassMap只有一个类别时以其为默认值
}

// ClassInference resolves the class id of a feature from its properties.
type ClassInference struct {
	idProp     string
	rules      []ClassRule
	classMap   ClassMap
	defaultID  int
	hasDefault bool
}

func NewClassInference(opts ClassInferenceOptions) *ClassInference {
	ci := &ClassInference{
		idProp:   opts.ClassIDProperty,
		rules:    opts.Rules,
		classMap: opts.ClassMap,
	}
	if ci.idProp == "" {
		ci.idProp = PROP_CLASS_ID
	}
	if opts.DefaultClassID != nil {
		ci.defaultID, ci.hasDefault = *opts.DefaultClassID, true
	} else if opts.InferDefault && len(opts.ClassMap) == 1 {
		ci.defaultID, ci.hasDefault = opts.ClassMap.IDs()[0], true
	}
	return ci
}

// 依次尝试：显式类别属性、规则（首个匹配）、类别名、默认值；类别属性存在但不是整数时直接报错
func (ci *ClassInference) Infer(props geojson.Properties) (classID int, err error) {
	if v, ok := props[ci.idProp]; ok && v != nil {
		if classID, ok = asInt(v); !ok {
			err = fmt.Errorf("%w: %s %v is not an integer", ErrUnresolvedClass, ci.idProp, v)
		}
		return
	}
	for _, r := range ci.rules {
		if v, ok := props[r.Property]; ok && propertyString(v) == r.Value {
			return r.ClassID, nil
		}
	}
	if ci.classMap != nil {
		if name, ok := props[PROP_CLASS_NAME].(string); ok {
			if id, found := ci.classMap.ID(name); found {
				return id, nil
			}
		}
	}
	if ci.hasDefault {
		return ci.defaultID, nil
	}
	err = fmt.Errorf("%w: properties %v", ErrUnresolvedClass, props)
	return
}

func asInt(v interface{}) (i int, ok bool) {
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), true
		}
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed, true
		}
	}
	return
}

func propertyString(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(n)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
