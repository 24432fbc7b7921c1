package parquet

import (
	"github.com/arrowlake/parquet/compress"
	"github.com/arrowlake/parquet/format"
)

// PageInfo describes one data page's location within a column chunk's byte
// range, deferring decompression and value decoding to the page decoder
// (spec §4.1 / §4.2). Data carries the page's still-compressed payload as a
// slice of the chunk buffer; it is never copied by the scanner.
type PageInfo struct {
	Index      int
	Header     *format.PageHeader
	Data       []byte // page payload, still compressed if the column chunk's codec applies
	Codec      format.CompressionCodec
	Type       format.Type
	TypeLength int32
}

// ScanColumnChunk walks a column chunk's byte range producing one PageInfo
// per data page and, if the chunk carries one, a parsed Dictionary shared by
// every data page (spec §4.1).
//
// buf must cover the chunk starting at its dictionary page if
// DictionaryPageOffset is set, otherwise at DataPageOffset, running through
// TotalCompressedSize bytes.
func ScanColumnChunk(path string, buf []byte, meta *format.ColumnMetaData, typeLength int32) ([]PageInfo, *Dictionary, error) {
	var dict *Dictionary
	var pages []PageInfo
	offset := 0
	valuesSeen := int64(0)

	// spec §4.1: the chunk ends when every value the column metadata
	// promises has been produced, or the buffer runs out, whichever comes
	// first. Trailing bytes after the last page (alignment padding some
	// writers emit) are never handed to DecodePageHeader.
	for offset < len(buf) && valuesSeen < meta.NumValues {
		header, headerLen, err := format.DecodePageHeader(buf[offset:])
		if err != nil {
			return nil, nil, corruptf(path, "decoding page header at chunk offset %d: %w", offset, err)
		}
		offset += headerLen

		size := int(header.CompressedPageSize)
		if size < 0 || offset+size > len(buf) {
			return nil, nil, corruptf(path, "page at chunk offset %d declares %d compressed bytes, only %d available", offset-headerLen, size, len(buf)-offset)
		}
		data := buf[offset : offset+size]
		offset += size

		if header.CRC != nil {
			if err := verifyPageCRC(data, uint32(*header.CRC)); err != nil {
				return nil, nil, corruptf(path, "page at chunk offset %d: %w", offset-size-headerLen, err)
			}
		}

		switch header.Type {
		case format.DictionaryPage:
			if header.DictionaryPageHeader == nil {
				return nil, nil, corruptf(path, "DICTIONARY_PAGE is missing its dictionary_page_header")
			}
			payload, err := compress.Decompress(meta.Codec, nil, data)
			if err != nil {
				return nil, nil, corruptf(path, "decompressing dictionary page: %w", err)
			}
			dict, err = decodeDictionaryPage(path, meta.Type, typeLength, header.DictionaryPageHeader.NumValues, payload)
			if err != nil {
				return nil, nil, err
			}
		case format.DataPage, format.DataPageV2:
			pages = append(pages, PageInfo{
				Index:      len(pages),
				Header:     header,
				Data:       data,
				Codec:      meta.Codec,
				Type:       meta.Type,
				TypeLength: typeLength,
			})
			valuesSeen += int64(pageNumValues(header))
		case format.IndexPage:
			// Page indexes are an explicit Non-goal; skip silently.
		default:
			return nil, nil, unsupportedf(path, "unknown page type %d", header.Type)
		}
	}

	return pages, dict, nil
}

// pageNumValues returns how many column values a data page contributes
// towards ColumnMetaData.NumValues, including nulls.
func pageNumValues(h *format.PageHeader) int32 {
	switch {
	case h.DataPageHeader != nil:
		return h.DataPageHeader.NumValues
	case h.DataPageHeaderV2 != nil:
		return h.DataPageHeaderV2.NumValues
	default:
		return 0
	}
}
