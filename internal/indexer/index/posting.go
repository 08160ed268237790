package index

// Posting is one document's occurrence list for a term. Positions are
// strictly increasing offsets into the document's term stream.
type Posting struct {
	DocID     string `json:"d"`
	Positions []int  `json:"p"`
}

type PostingList []Posting

// TermEntry is the serialisable form of a term's postings, ordered by DocID.
type TermEntry struct {
	Term     string      `json:"t"`
	Postings PostingList `json:"p"`
}

// Document is a (id, raw text) pair supplied by a corpus source.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Stats summarises a built index.
type Stats struct {
	Documents   int   `json:"documents"`
	Terms       int   `json:"terms"`
	TotalTokens int64 `json:"total_tokens"`
}
