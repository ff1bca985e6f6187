package postgres

import (
	sonic "github.com/bytedance/sonic"
)

func marshalJSON(value any) ([]byte, error) {
	return sonic.Marshal(value)
}

func unmarshalJSON(raw []byte, target any) error {
	return sonic.Unmarshal(raw, target)
}
