// Package ingestion feeds the knowledge base.
//
// The pipeline takes harvested channel items and manual uploads, claims
// their fingerprints through the Deduplicator, hands new content to the
// retrieval service, and records every attempt in the audit log. Harvest
// cursors only advance past items that were ingested or skipped; a failed
// item freezes the cursor in front of itself so the next run retries it.
package ingestion
