package engine

import (
	"github.com/mintjams/go-nativeecma/engines/types"
	"github.com/mintjams/go-nativeecma/platform"
	"github.com/stretchr/testify/mock"
)

type mockMachine struct {
	mock.Mock
}

func (m *mockMachine) Type() types.Type {
	return types.JavaScript
}

func (m *mockMachine) NewRuntime() (platform.Runtime, error) {
	args := m.Called()
	rt, _ := args.Get(0).(platform.Runtime)
	return rt, args.Error(1)
}

type mockRuntime struct {
	mock.Mock
}

func (m *mockRuntime) NewScope() (platform.Scope, error) {
	args := m.Called()
	s, _ := args.Get(0).(platform.Scope)
	return s, args.Error(1)
}

func (m *mockRuntime) Close() error {
	return m.Called().Error(0)
}

type mockScope struct {
	mock.Mock
}

func (m *mockScope) Compile(name, source string, hint any) (any, any, error) {
	args := m.Called(name, source, hint)
	return args.Get(0), args.Get(1), args.Error(2)
}

func (m *mockScope) Run(program any) (platform.Completion, error) {
	args := m.Called(program)
	c, _ := args.Get(0).(platform.Completion)
	return c, args.Error(1)
}

func (m *mockScope) Drain() error {
	return m.Called().Error(0)
}

func (m *mockScope) Close() error {
	return m.Called().Error(0)
}

// newMockStack wires a machine that hands out one runtime whose every scope
// is the given scope.
func newMockStack(scope *mockScope) (*mockMachine, *mockRuntime) {
	rt := &mockRuntime{}
	rt.On("NewScope").Return(scope, nil)
	rt.On("Close").Return(nil)

	m := &mockMachine{}
	m.On("NewRuntime").Return(rt, nil)

	scope.On("Drain").Return(nil).Maybe()
	scope.On("Close").Return(nil).Maybe()
	return m, rt
}
