// Package harvest pulls new messages from monitored channel sources.
//
// A harvest run fetches everything past the source's cursor, drops
// replies, short posts and advertising, cleans the survivors (signature
// lines, markdown markers, excess blank lines), and hands them to the
// ingestion pipeline as ordered items. Partial fetch failures return what
// was gathered so far along with ErrHarvestPartial.
package harvest
