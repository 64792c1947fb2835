// Package ipc implements a message-framing and metadata-serialization
// codec for exchanging columnar Schema, RecordBatch, and DictionaryBatch
// messages over a byte stream between producers and consumers running in
// different processes, languages, or machines — without re-encoding the
// column data itself.
//
// # Core Features
//
//   - Self-describing, extensible metadata built on the flatbuffers
//     vtable encoding (unknown fields are skipped, not misread)
//   - 8-byte aligned message framing with explicit body placement
//   - Zero-copy column buffer views sliced directly out of a body region
//   - Streaming, random-access (block-addressed), and dictionary-batch reads
//   - External, pluggable body-region allocator
//
// # Basic Usage
//
// Writing a schema followed by one record batch:
//
//	import "github.com/colexch/ipc"
//	import "github.com/colexch/ipc/internal/iochan"
//	import "github.com/colexch/ipc/metadata"
//	import "github.com/colexch/ipc/recordbatch"
//
//	w := iochan.NewWriter(stream)
//	sw := ipc.NewStreamWriter(w)
//
//	sw.WriteSchema(metadata.Schema{
//	    Fields: []metadata.Field{
//	        {Name: "id", Type: metadata.Int{BitWidth: 64, Signed: true}},
//	    },
//	})
//
//	sw.WriteRecordBatch(3,
//	    []metadata.FieldNode{{Length: 3, NullCount: 0}},
//	    []recordbatch.Column{
//	        {Buffer: metadata.Buffer{Offset: 0, Length: 8}, Data: validity},
//	        {Buffer: metadata.Buffer{Offset: 8, Length: 24}, Data: values},
//	    })
//
//	sw.Close()
//
// Reading it back:
//
//	r := iochan.NewReader(stream)
//	sr := ipc.NewStreamReader(r, region.NewHeapAllocator())
//
//	for {
//	    msg, ok, err := sr.Next()
//	    if err != nil {
//	        // stream is poisoned; discard it
//	    }
//	    if !ok {
//	        break // end of stream
//	    }
//	    switch msg.Kind {
//	    case ipc.KindSchema:
//	        // msg.Schema
//	    case ipc.KindRecordBatch:
//	        // msg.RecordBatch, then msg.Release() when done with its buffers
//	    }
//	}
//
// # Package Structure
//
// This package provides a convenient sequential-session wrapper
// (StreamWriter/StreamReader) around the component packages: metadata (the
// flat, vtabled schema/header encoding), frame (prefix+payload+padding+body
// framing), schema and recordbatch (the per-message codecs), region (the
// body-buffer allocator interface), and errs (the sentinel error
// taxonomy). Advanced callers needing control over body-length
// precomputation, random-access reads, or a custom allocator should use
// those packages directly.
package ipc
