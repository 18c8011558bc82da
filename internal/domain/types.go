package domain

// JobPosting is one job listing stored in a snapshot. Records are created by
// the offline ingestion pipeline and are read-only at query time.
type JobPosting struct {
	// ID is the rowid of the record inside the snapshot.
	ID int64
	// Title is the text that was embedded (the posting's headline).
	Title string
	// Content is the full posting text returned to the chatbot.
	Content string
	// PostedAt is the ingestion timestamp in unix seconds.
	PostedAt float64
}

// SearchResult pairs a posting with its distance to the query embedding.
// Smaller distance means a better match.
type SearchResult struct {
	Posting  JobPosting
	Distance float64
}
