package iteration

type Equaler[T any] interface {
	Equal(other T) bool
}

type Hashable[T any] interface {
	Equaler[T]
	Hash() uint64
}

// HashSet is a set of elements bucketed by their hash.
type HashSet[T Hashable[T]] struct {
	buckets map[uint64][]T
	size    int
}

func NewHashSet[T Hashable[T]]() *HashSet[T] {
	return &HashSet[T]{
		buckets: make(map[uint64][]T),
	}
}

func (s *HashSet[T]) Contains(item T) bool {
	for _, candidate := range s.buckets[item.Hash()] {
		if candidate.Equal(item) {
			return true
		}
	}
	return false
}

// Add inserts the item and reports whether it wasn't present before.
func (s *HashSet[T]) Add(item T) bool {
	hash := item.Hash()
	for _, candidate := range s.buckets[hash] {
		if candidate.Equal(item) {
			return false
		}
	}
	s.buckets[hash] = append(s.buckets[hash], item)
	s.size++
	return true
}

func (s *HashSet[T]) Remove(item T) bool {
	hash := item.Hash()
	bucket := s.buckets[hash]
	for i := range bucket {
		if bucket[i].Equal(item) {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			if len(bucket) == 0 {
				delete(s.buckets, hash)
			} else {
				s.buckets[hash] = bucket
			}
			s.size--
			return true
		}
	}
	return false
}

func (s *HashSet[T]) Len() int {
	return s.size
}

func (s *HashSet[T]) Reset() {
	if s.size == 0 {
		return
	}
	s.buckets = make(map[uint64][]T)
	s.size = 0
}
