package tdx

import (
	"encoding/binary"
	"errors"
	"fmt"

	"ashare/internal/models"
)

// RecordSize is the fixed width of one vendor day-file record.
const RecordSize = 32

// ErrTruncatedRecord reports a day-file buffer whose length is not a
// multiple of RecordSize. A partial trailing record means the file is
// corrupt, so the whole buffer is rejected rather than silently shortened.
var ErrTruncatedRecord = errors.New("tdx: buffer length is not a multiple of record size")

// Decode parses a raw day-file buffer into daily bars in file order.
//
// Each record is eight little-endian uint32 values: date as YYYYMMDD,
// open/high/low/close in integer hundredths, turnover in currency units,
// volume in shares, and one reserved field.
func Decode(symbol string, buf []byte) ([]models.DailyBar, error) {
	if len(buf)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedRecord, len(buf))
	}

	bars := make([]models.DailyBar, 0, len(buf)/RecordSize)
	for off := 0; off < len(buf); off += RecordSize {
		rec := buf[off : off+RecordSize]
		date := binary.LittleEndian.Uint32(rec[0:4])
		bars = append(bars, models.DailyBar{
			Symbol:   symbol,
			Date:     formatDate(date),
			Open:     float64(binary.LittleEndian.Uint32(rec[4:8])) / 100,
			High:     float64(binary.LittleEndian.Uint32(rec[8:12])) / 100,
			Low:      float64(binary.LittleEndian.Uint32(rec[12:16])) / 100,
			Close:    float64(binary.LittleEndian.Uint32(rec[16:20])) / 100,
			Turnover: float64(binary.LittleEndian.Uint32(rec[20:24])),
			Volume:   int64(binary.LittleEndian.Uint32(rec[24:28])),
		})
	}
	return bars, nil
}

// AppendRecord encodes one bar into the 32-byte day-file layout and appends
// it to dst. Prices are stored in integer hundredths, so anything beyond
// cent precision is lost.
func AppendRecord(dst []byte, bar models.DailyBar) []byte {
	var rec [RecordSize]byte
	binary.LittleEndian.PutUint32(rec[0:4], parseDate(bar.Date))
	binary.LittleEndian.PutUint32(rec[4:8], uint32(bar.Open*100+0.5))
	binary.LittleEndian.PutUint32(rec[8:12], uint32(bar.High*100+0.5))
	binary.LittleEndian.PutUint32(rec[12:16], uint32(bar.Low*100+0.5))
	binary.LittleEndian.PutUint32(rec[16:20], uint32(bar.Close*100+0.5))
	binary.LittleEndian.PutUint32(rec[20:24], uint32(bar.Turnover+0.5))
	binary.LittleEndian.PutUint32(rec[24:28], uint32(bar.Volume))
	return append(dst, rec[:]...)
}

// formatDate renders a YYYYMMDD integer as YYYY-MM-DD.
func formatDate(d uint32) string {
	return fmt.Sprintf("%04d-%02d-%02d", d/10000, d/100%100, d%100)
}

// parseDate is the inverse of formatDate; malformed input yields 0.
func parseDate(s string) uint32 {
	var y, m, d uint32
	if _, err := fmt.Sscanf(s, "%4d-%2d-%2d", &y, &m, &d); err != nil {
		return 0
	}
	return y*10000 + m*100 + d
}
