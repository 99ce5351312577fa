// Package sitesage provides retrieval-augmented question answering over a
// configured set of websites. It crawls the sites, splits page content
// into bounded overlapping chunks, indexes the chunks in a persistent
// vector store, and answers natural language questions grounded in the
// retrieved chunks with source attribution.
//
// This package contains domain types and capability interfaces following
// the Standard Package Layout. Implementations live in subdirectories
// named after their primary dependency (e.g., goquery/, chromem/,
// gemini/, langchain/).
package sitesage
