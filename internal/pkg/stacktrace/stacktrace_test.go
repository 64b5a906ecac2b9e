package stacktrace

import (
	"reflect"
	"testing"
)

func TestInternalPaths(t *testing.T) {
	// Arrange
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/gosocial/internal/pkg/goroutine.(*Manager).run.func1()
	/src/gosocial/internal/pkg/goroutine/goroutine.go:81 +0x7a
panic({0x5d2a40?, 0x6a1f10?})
	/usr/local/go/src/runtime/panic.go:792 +0x132
github.com/shandysiswandi/gosocial/internal/chat/usecase.(*Usecase).Send(...)
	/src/gosocial/internal/chat/usecase/send.go:40 +0x1f
`)

	// Act
	got := InternalPaths(stack)

	// Assert
	want := []string{
		"internal/pkg/goroutine/goroutine.go:81",
		"internal/chat/usecase/send.go:40",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InternalPaths() = %#v, want %#v", got, want)
	}
}
