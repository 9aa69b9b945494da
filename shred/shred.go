// Package shred walks a parsed JSON document depth-first and flattens it
// into one (pathkey.Key, nodeval.Value) entry per visited node, allocating
// a fresh VarId for every object member and array element along the way.
package shred

import (
	"encoding/json"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/xerrors"

	"github.com/panicfrog/dm-cache/journal"
	"github.com/panicfrog/dm-cache/nodeval"
	"github.com/panicfrog/dm-cache/pathkey"
)

// ErrJSONParse wraps a failure to parse the document bytes.
var ErrJSONParse = xerrors.New("shred: invalid json")

var jsonAPI = jsoniter.Config{EscapeHTML: true, UseNumber: true}.Froze()

// Entry is one flattened (key, value) pair produced by a shred pass.
type Entry struct {
	Key   pathkey.Key
	Value nodeval.Value
}

// frame is one pending (container, context key) pair on the traversal stack.
type frame struct {
	raw interface{}
	ctx pathkey.Key
}

// Document parses data as JSON and shreds it into path-keyed entries rooted
// at root. meta.LastID is advanced (on the returned counter, not meta
// itself) as ids are allocated; the caller is responsible for committing
// the new counter value back into meta only after a successful write.
func Document(meta *journal.Metadata, root pathkey.Key, data []byte) ([]Entry, uint64, error) {
	var top interface{}
	if err := jsonAPI.Unmarshal(data, &top); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrJSONParse, err)
	}

	counter := meta.LastID
	for _, id := range root.Ancestors {
		if id > counter {
			counter = id
		}
	}

	var entries []Entry
	entries = append(entries, Entry{Key: root, Value: scalarOrContainerKind(top)})

	stack := []frame{{raw: top, ctx: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := f.raw.(type) {
		case map[string]interface{}:
			for name, child := range v {
				counter++
				childKey := pathkey.SubKey(f.ctx, counter, pathkey.Field([]byte(name)))
				entries = append(entries, Entry{Key: childKey, Value: scalarOrContainerKind(child)})
				if isContainer(child) {
					stack = append(stack, frame{raw: child, ctx: childKey})
				}
			}
		case []interface{}:
			for idx, child := range v {
				counter++
				childKey := pathkey.SubKey(f.ctx, counter, pathkey.ID(uint64(idx)))
				entries = append(entries, Entry{Key: childKey, Value: scalarOrContainerKind(child)})
				if isContainer(child) {
					stack = append(stack, frame{raw: child, ctx: childKey})
				}
			}
		}
	}

	return entries, counter, nil
}

func isContainer(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return true
	default:
		return false
	}
}

// scalarOrContainerKind classifies a decoded JSON value into its stored
// NodeValue representation, applying the U64/I64/F64 split per the decoded
// number's textual form.
func scalarOrContainerKind(v interface{}) nodeval.Value {
	switch t := v.(type) {
	case nil:
		return nodeval.Null()
	case bool:
		return nodeval.Bool(t)
	case string:
		return nodeval.String([]byte(t))
	case json.Number:
		return classifyNumber(string(t))
	case map[string]interface{}:
		return nodeval.Object()
	case []interface{}:
		return nodeval.Array()
	default:
		return nodeval.Null()
	}
}

func classifyNumber(text string) nodeval.Value {
	if u, err := strconv.ParseUint(text, 10, 64); err == nil {
		return nodeval.U64(u)
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return nodeval.I64(i)
	}
	f, _ := strconv.ParseFloat(text, 64)
	return nodeval.F64(f)
}
