package idjson

// Package idjson provides:
//
// - A reflection-driven JSON Serializer that walks Go object graphs while tracking the field path of every value
// - Pluggable Converters consulted per static type, with the default handling exposed as a continuation
// - A stable error model via Issues and SerializationError (field path, code, message, offending value)
// - Presence metadata (seen, null, malformed) through the WithMeta decode APIs
// - Streaming decode over Source with duplicate-key/depth/size enforcement
//
// Design policy:
// - Keep only public APIs in the root package; put tokenizer internals under internal/.
// - Place the identifier converters under codec/, the json-iterator binding under jsoniterx/,
//   HTTP adapters under middleware/, and the sample server under cmd/idserver.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  s := codec.NewSerializer()
//  b, err := s.Marshal(model)             // identifier int64 fields become "123"
//  err = s.Unmarshal(b, &model)
//  pm, err := s.UnmarshalWithMeta(b, &m)  // pm.Malformed("ParentId")
