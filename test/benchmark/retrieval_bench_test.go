package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmorante/charla/internal/splitter"
	"github.com/dmorante/charla/internal/vectorstore"
)

type benchEmbedder struct {
	dims int
}

func (e benchEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, e.dims)
		for j, r := range text {
			v[j%e.dims] += float32(r % 13)
		}
		out[i] = v
	}
	return out, nil
}

func BenchmarkSplit(b *testing.B) {
	text := strings.Repeat("palabra corta y otra más larga ", 4000)
	s := splitter.New(1000, 200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Split(text)
	}
}

func BenchmarkRetrieve(b *testing.B) {
	ctx := context.Background()
	store := vectorstore.NewStore(benchEmbedder{dims: 128})
	for i := 0; i < 1000; i++ {
		text := fmt.Sprintf("fragmento número %d sobre un tema distinto", i)
		if err := store.AddTexts(ctx, "bench", i+1, []string{text}); err != nil {
			b.Fatal(err)
		}
	}
	r := store.Retriever("bench", 4)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Retrieve(ctx, "tema número quinientos"); err != nil {
			b.Fatal(err)
		}
	}
}
