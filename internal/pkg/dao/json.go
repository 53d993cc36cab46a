package dao

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONColumn 把任意结构体以 JSON 的形式存到一个列里面，实现 Value() 和 Scan()
// Valid 为 false 的时候写入 NULL
type JSONColumn[T any] struct {
	Val   T
	Valid bool
}

func NewJSONColumn[T any](val T) JSONColumn[T] {
	return JSONColumn[T]{Val: val, Valid: true}
}

// Value 实现 driver.Valuer 接口
func (j JSONColumn[T]) Value() (driver.Value, error) {
	if !j.Valid {
		return nil, nil
	}
	res, err := json.Marshal(j.Val)
	if err != nil {
		return nil, err
	}
	return string(res), nil
}

// Scan 实现 sql.Scanner 接口
func (j *JSONColumn[T]) Scan(value any) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		var zero T
		j.Val, j.Valid = zero, false
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("JSONColumn 不支持的类型 %T", value)
	}
	if len(bytes) == 0 {
		return errors.New("JSONColumn 空值")
	}
	if err := json.Unmarshal(bytes, &j.Val); err != nil {
		return err
	}
	j.Valid = true
	return nil
}
