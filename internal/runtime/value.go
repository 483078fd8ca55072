// Package runtime defines WFL's dynamic value model and lexical
// environment, grounded on CWBudde-go-dws's internal/interp/runtime
// environment shape but replacing the Pascal static-type object model
// with a small tagged union suited to a dynamically-typed language.
package runtime

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags a Value's dynamic type.
type Kind int

const (
	KindNumber Kind = iota
	KindText
	KindBoolean
	KindNothing
	KindList
	KindMap
	KindFunction
	KindNativeFunction
	KindContainer
	KindPattern
	KindFile
	KindConnection
	KindServer
	KindDbHandle
	KindBinary
	KindTxHandle
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindNothing:
		return "nothing"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindFunction, KindNativeFunction:
		return "action"
	case KindContainer:
		return "container"
	case KindPattern:
		return "pattern"
	case KindFile:
		return "file"
	case KindConnection:
		return "connection"
	case KindServer:
		return "server"
	case KindDbHandle:
		return "database"
	case KindBinary:
		return "binary"
	case KindTxHandle:
		return "transaction"
	default:
		return "unknown"
	}
}

// Value is WFL's dynamic value. Exactly one of the typed fields is
// meaningful for a given Kind; this mirrors the teacher's tagged Value
// shape without the Pascal refcount/pool machinery that has no WFL
// equivalent (see DESIGN.md, "Dropped teacher modules").
type Value struct {
	Kind Kind

	Num  float64
	Str  string
	Bool bool

	List []Value
	Map  *OrderedMap

	Fn       *Function
	Native   NativeFunction
	Obj      *ContainerInstance
	Pat      *Pattern
	FileH    *FileHandle
	Conn     *Connection
	Srv      *Server
	Db       *DbHandle
	Bin      []byte
	Tx       *TxHandle
}

var Nothing = Value{Kind: KindNothing}

func Number(n float64) Value  { return Value{Kind: KindNumber, Num: n} }
func Text(s string) Value     { return Value{Kind: KindText, Str: s} }
func Boolean(b bool) Value    { return Value{Kind: KindBoolean, Bool: b} }
func List(items []Value) Value { return Value{Kind: KindList, List: items} }

func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNothing:
		return false
	case KindBoolean:
		return v.Bool
	case KindNumber:
		return v.Num != 0
	case KindText:
		return v.Str != ""
	case KindList:
		return len(v.List) > 0
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		if v.Num == float64(int64(v.Num)) {
			return fmt.Sprintf("%d", int64(v.Num))
		}
		return fmt.Sprintf("%g", v.Num)
	case KindText:
		return v.Str
	case KindBoolean:
		if v.Bool {
			return "yes"
		}
		return "no"
	case KindNothing:
		return "nothing"
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		return v.Map.String()
	case KindFunction, KindNativeFunction:
		return "<action>"
	case KindContainer:
		return "<" + v.Obj.Class.Name + ">"
	default:
		return "<" + v.Kind.String() + ">"
	}
}

// OrderedMap preserves insertion order, matching spec.md's requirement
// that map iteration order is stable and display-friendly.
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]Value)}
}

func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedMap) Set(key string, v Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *OrderedMap) Delete(key string) {
	if _, exists := m.values[key]; !exists {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *OrderedMap) SortedKeys() []string {
	out := m.Keys()
	sort.Strings(out)
	return out
}

func (m *OrderedMap) Len() int { return len(m.keys) }

func (m *OrderedMap) String() string {
	parts := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		parts = append(parts, k+": "+m.values[k].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// NativeFunction is a Go-implemented builtin registered by internal/stdlib.
type NativeFunction func(args []Value) (Value, error)

// Pattern is a compiled WFL pattern literal, built by internal/interp's
// pattern engine.
type Pattern struct {
	Source string
	Match  func(s string) (bool, map[string]string)
}

// ContainerClass describes a `create container` definition: its
// properties, actions, and parent link for method/property resolution.
type ContainerClass struct {
	Name       string
	Parent     *ContainerClass
	Properties []string
	Defaults   map[string]Value
	Actions    map[string]*Function
	Events     []string
}

func (c *ContainerClass) Lookup(name string) (*Function, bool) {
	for cls := c; cls != nil; cls = cls.Parent {
		if fn, ok := cls.Actions[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// ContainerInstance is a live object: its class plus an own property
// store layered over class defaults.
type ContainerInstance struct {
	Class      *ContainerClass
	Properties map[string]Value
}

func NewInstance(class *ContainerClass) *ContainerInstance {
	props := make(map[string]Value, len(class.Properties))
	for k, v := range class.Defaults {
		props[k] = v
	}
	return &ContainerInstance{Class: class, Properties: props}
}

func (o *ContainerInstance) Get(name string) (Value, bool) {
	v, ok := o.Properties[name]
	return v, ok
}

func (o *ContainerInstance) Set(name string, v Value) {
	o.Properties[name] = v
}

// FileHandle, Connection, Server, and DbHandle are opaque resource
// handles returned by internal/stdlib's I/O modules; the interpreter
// treats them as inert values passed back into stdlib calls.
type FileHandle struct {
	Path   string
	Mode   string
	Closer func() error
	Reader interface {
		Read([]byte) (int, error)
	}
	Writer interface {
		Write([]byte) (int, error)
	}
}

type Connection struct {
	Addr   string
	Closer func() error
	Raw    interface{}
}

type Server struct {
	Addr    string
	Stopper func() error
}

type DbHandle struct {
	Driver string
	DSN    string
	Raw    interface{}
	Closer func() error
}

// TxHandle wraps an open database transaction, spec.md §5's per-connection
// `begin transaction` / `commit` / `rollback` statements.
type TxHandle struct {
	Raw      interface{}
	Commit   func() error
	Rollback func() error
}
