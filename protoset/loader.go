// Package protoset loads FileDescriptorSet blobs referenced by the
// `encode_proto`/`parse_proto` stdlib functions and resolves message
// descriptors from them. Loading is deduplicated per descriptor file path
// with golang.org/x/sync/singleflight, since many call sites across a
// compiled program typically name the same descriptor file (spec §4.5,
// §9's "regex and descriptor resources... shared, immutable, lazily
// initialised collaborators").
package protoset

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Loader caches parsed descriptor sets by file path.
type Loader struct {
	group singleflight.Group

	mu    sync.RWMutex
	files map[string]*protoregistry.Files
}

func NewLoader() *Loader {
	return &Loader{files: map[string]*protoregistry.Files{}}
}

// Load reads and parses the FileDescriptorSet at descFile, caching the
// result. Concurrent loads of the same path collapse into a single read.
func (l *Loader) Load(descFile string) (*protoregistry.Files, error) {
	l.mu.RLock()
	if files, ok := l.files[descFile]; ok {
		l.mu.RUnlock()
		return files, nil
	}
	l.mu.RUnlock()

	v, err, _ := l.group.Do(descFile, func() (interface{}, error) {
		data, err := os.ReadFile(descFile)
		if err != nil {
			return nil, fmt.Errorf("protoset: reading %s: %w", descFile, err)
		}
		var fdset descriptorpb.FileDescriptorSet
		if err := proto.Unmarshal(data, &fdset); err != nil {
			return nil, fmt.Errorf("protoset: parsing %s: %w", descFile, err)
		}
		files, err := protodesc.NewFiles(&fdset)
		if err != nil {
			return nil, fmt.Errorf("protoset: resolving %s: %w", descFile, err)
		}
		l.mu.Lock()
		l.files[descFile] = files
		l.mu.Unlock()
		return files, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*protoregistry.Files), nil
}

// FindMessage resolves messageType within the descriptor file at descFile.
func (l *Loader) FindMessage(descFile, messageType string) (protoreflect.MessageDescriptor, error) {
	files, err := l.Load(descFile)
	if err != nil {
		return nil, err
	}
	desc, err := files.FindDescriptorByName(protoreflect.FullName(messageType))
	if err != nil {
		return nil, fmt.Errorf("protoset: %s not found in %s: %w", messageType, descFile, err)
	}
	md, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("protoset: %s in %s is not a message type", messageType, descFile)
	}
	return md, nil
}
