package driver

import "hash/fnv"

// Partition splits files into n buckets by a sequential hash of each
// file's path (§5 "multiprocess analysis... splits the file list across
// N worker processes"). The hash is a pure function of the path, so for
// a given n the same file always lands in the same bucket run over run,
// whatever the order of the input list.
func Partition(files []File, n int) [][]File {
	if n < 1 {
		n = 1
	}
	buckets := make([][]File, n)
	for _, f := range files {
		h := fnv.New32a()
		_, _ = h.Write([]byte(f.Path))
		idx := int(h.Sum32() % uint32(n))
		buckets[idx] = append(buckets[idx], f)
	}
	return buckets
}
