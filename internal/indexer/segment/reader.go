package segment

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/normalizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

type Reader struct {
	file     *os.File
	filePath string
	header   SegmentHeader
	dict     []DictEntry
	catalog  Catalog
}

func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	r, err := openReader(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func openReader(f *os.File, path string) (*Reader, error) {
	headerBytes := make([]byte, HeaderSize)
	if _, err := f.ReadAt(headerBytes, 0); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", apperrors.ErrCorruptSnapshot, err)
	}
	magic := binary.LittleEndian.Uint32(headerBytes[0:4])
	if magic != MagicBytes {
		return nil, fmt.Errorf("%w: bad magic bytes %x", apperrors.ErrCorruptSnapshot, magic)
	}
	header := SegmentHeader{
		Magic:      magic,
		Version:    binary.LittleEndian.Uint32(headerBytes[4:8]),
		TermCount:  binary.LittleEndian.Uint32(headerBytes[8:12]),
		DocCount:   binary.LittleEndian.Uint32(headerBytes[12:16]),
		DictOffset: int64(binary.LittleEndian.Uint64(headerBytes[16:24])),
		DictSize:   int64(binary.LittleEndian.Uint64(headerBytes[24:32])),
		PostOffset: int64(binary.LittleEndian.Uint64(headerBytes[32:40])),
		PostSize:   int64(binary.LittleEndian.Uint64(headerBytes[40:48])),
		CatOffset:  int64(binary.LittleEndian.Uint64(headerBytes[48:56])),
		CatSize:    int64(binary.LittleEndian.Uint64(headerBytes[56:64])),
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", apperrors.ErrCorruptSnapshot, header.Version)
	}

	footer := make([]byte, FooterSize)
	if _, err := f.ReadAt(footer, header.CatOffset+header.CatSize); err != nil {
		return nil, fmt.Errorf("%w: reading footer: %v", apperrors.ErrCorruptSnapshot, err)
	}

	dictBytes := make([]byte, header.DictSize)
	if _, err := f.ReadAt(dictBytes, header.DictOffset); err != nil {
		return nil, fmt.Errorf("%w: reading dictionary: %v", apperrors.ErrCorruptSnapshot, err)
	}
	if crc32.ChecksumIEEE(dictBytes) != binary.LittleEndian.Uint32(footer[0:4]) {
		return nil, fmt.Errorf("%w: dictionary checksum mismatch", apperrors.ErrCorruptSnapshot)
	}
	var dict []DictEntry
	if err := json.Unmarshal(dictBytes, &dict); err != nil {
		return nil, fmt.Errorf("%w: parsing dictionary: %v", apperrors.ErrCorruptSnapshot, err)
	}

	catBytes := make([]byte, header.CatSize)
	if _, err := f.ReadAt(catBytes, header.CatOffset); err != nil {
		return nil, fmt.Errorf("%w: reading catalog: %v", apperrors.ErrCorruptSnapshot, err)
	}
	if crc32.ChecksumIEEE(catBytes) != binary.LittleEndian.Uint32(footer[4:8]) {
		return nil, fmt.Errorf("%w: catalog checksum mismatch", apperrors.ErrCorruptSnapshot)
	}
	var catalog Catalog
	if err := json.Unmarshal(catBytes, &catalog); err != nil {
		return nil, fmt.Errorf("%w: parsing catalog: %v", apperrors.ErrCorruptSnapshot, err)
	}

	return &Reader{
		file:     f,
		filePath: path,
		header:   header,
		dict:     dict,
		catalog:  catalog,
	}, nil
}

// Search returns the stored postings for an already-normalized term.
func (r *Reader) Search(term string) (index.PostingList, error) {
	idx := sort.Search(len(r.dict), func(i int) bool {
		return r.dict[i].Term >= term
	})
	if idx >= len(r.dict) || r.dict[idx].Term != term {
		return nil, nil
	}
	return r.readPostings(r.dict[idx])
}

func (r *Reader) readPostings(entry DictEntry) (index.PostingList, error) {
	postingsBytes := make([]byte, entry.PostLen)
	if _, err := r.file.ReadAt(postingsBytes, r.header.PostOffset+entry.PostOffset); err != nil {
		return nil, fmt.Errorf("reading postings for %q: %w", entry.Term, err)
	}
	var postings index.PostingList
	if err := json.Unmarshal(postingsBytes, &postings); err != nil {
		return nil, fmt.Errorf("%w: parsing postings for %q: %v", apperrors.ErrCorruptSnapshot, entry.Term, err)
	}
	return postings, nil
}

// Index materialises the whole snapshot as an in-memory index. The
// normalizer must use the stemmer the snapshot was built with.
func (r *Reader) Index(n *normalizer.Normalizer) (*index.Index, error) {
	if n == nil {
		n = normalizer.Default()
	}
	if n.StemmerName() != r.catalog.Stemmer {
		return nil, fmt.Errorf("snapshot %s was built with stemmer %q, normalizer uses %q",
			r.filePath, r.catalog.Stemmer, n.StemmerName())
	}
	entries := make([]index.TermEntry, 0, len(r.dict))
	for _, d := range r.dict {
		postings, err := r.readPostings(d)
		if err != nil {
			return nil, err
		}
		entries = append(entries, index.TermEntry{Term: d.Term, Postings: postings})
	}
	return index.FromSnapshot(n, entries, r.catalog.Documents)
}

func (r *Reader) Terms() int {
	return len(r.dict)
}

func (r *Reader) DocCount() uint32 {
	return r.header.DocCount
}

func (r *Reader) Catalog() Catalog {
	return r.catalog
}

func (r *Reader) Close() error {
	return r.file.Close()
}

// Load opens path, materialises the index and closes the file.
func Load(path string, n *normalizer.Normalizer) (*index.Index, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Index(n)
}
