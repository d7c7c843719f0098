// Package ngram implements the exact-count accumulation pass (C5): given
// tokenized sentences of word ids, it produces 1/2/3-gram frequency maps
// and a running total-word count.
package ngram

// Gram1 is a unigram key.
type Gram1 struct{ W1 uint32 }

// Gram2 is a bigram key.
type Gram2 struct{ W1, W2 uint32 }

// Gram3 is a trigram key.
type Gram3 struct{ W1, W2, W3 uint32 }
