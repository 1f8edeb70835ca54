// Package ingestion turns raw document files into indexed vectors.
//
// Processor runs the synchronous pipeline for one document: validate,
// detect format, extract text, chunk, embed, and upsert to the vector
// index, moving the document through its status lifecycle. Pipeline wraps
// a Processor with a worker pool for asynchronous batch ingestion; errors
// during async processing are reported to the caller's callback and logged,
// but never fail other documents.
package ingestion
