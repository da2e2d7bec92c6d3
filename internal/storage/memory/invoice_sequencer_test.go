package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Chinenye997/IMS/internal/storage/memory"
)

func TestInvoiceSequencer_Sequential(t *testing.T) {
	ctx := context.Background()
	seq := memory.NewInvoiceSequencer()

	for i, want := range []string{"InvoiceNo-001", "InvoiceNo-002", "InvoiceNo-003"} {
		got, err := seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d failed: %v", i, err)
		}
		if got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

// Два конкурентных вызова никогда не получают один номер.
func TestInvoiceSequencer_ConcurrentUnique(t *testing.T) {
	ctx := context.Background()
	seq := memory.NewInvoiceSequencer()

	const workers = 200
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			no, err := seq.Next(ctx)
			if err != nil {
				t.Errorf("next failed: %v", err)
				return
			}
			mu.Lock()
			seen[no] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != workers {
		t.Fatalf("expected %d unique invoice numbers, got %d", workers, len(seen))
	}
}
