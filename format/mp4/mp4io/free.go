package mp4io

// BuildFree returns a free atom occupying exactly size bytes including its header.
func BuildFree(size int) []byte {
	if size < HeaderSize {
		size = HeaderSize
	}
	return BuildFromData(FREE, make([]byte, size-HeaderSize))
}
