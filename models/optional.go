package models

import "encoding/json"

// Optional 区分 JSON 中字段缺失与显式 null
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON 仅在字段出现时被调用
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
