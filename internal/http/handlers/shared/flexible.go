package shared

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexibleString 兼容 JSON 字符串与数字的字段，数字保留原始文本
type FlexibleString string

// UnmarshalJSON 实现 json.Unmarshaler
func (s *FlexibleString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*s = FlexibleString(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	*s = FlexibleString(number.String())
	return nil
}

// String 去除首尾空白后的文本
func (s FlexibleString) String() string {
	return strings.TrimSpace(string(s))
}
