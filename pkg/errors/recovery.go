package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// PanicError は回復したpanicから作られたエラーです。
// core/parallel のワーカーがコールバックのpanicを Wait の戻り値として返すために使います。
type PanicError struct {
	Operation string
	Value     interface{}
	Stack     string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("interactlab: panic in %s: %v", e.Operation, e.Value)
}

// Unwrap はpanicの値自体がerrorであればそれを返す
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// String はスタックトレース付きの詳細を返す
func (e *PanicError) String() string {
	return fmt.Sprintf("%s\nstack trace:\n%s", e.Error(), e.Stack)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *PanicError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Interface("panic_value", e.Value).
		Str("type", "PanicError")
}

// NewPanicError は現在のスタックを記録したPanicErrorを作成します。
func NewPanicError(operation string, value interface{}) *PanicError {
	return &PanicError{
		Operation: operation,
		Value:     value,
		Stack:     string(debug.Stack()),
	}
}

// Recover は defer で使い、panicを *err に代入されるエラーへ変換します。
//
//	func (p *Pool) run(fn func() error) (err error) {
//	    defer errors.Recover(&err, "parallel.Pool")
//	    return fn()
//	}
//
// *err が既に設定されている場合はそれをラップします。
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = errors.Wrapf(*err, "panic in %s: %v", operation, r)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute はfnを実行し、panicをエラーに変換して返す
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
