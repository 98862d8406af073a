package vstack_test

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"

	"github.com/hupe1980/vstack"
	"github.com/hupe1980/vstack/resource"
)

// Example demonstrates the basic push/peek/pop cycle of a typed stack.
func Example() {
	s, err := vstack.New[string]()
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	for _, w := range []string{"alpha", "beta", "gamma"} {
		if err := s.Push(w); err != nil {
			log.Fatal(err)
		}
	}

	for !s.Empty() {
		top, _ := s.Top()
		fmt.Println(top)
		_ = s.Pop()
	}
	// Output:
	// gamma
	// beta
	// alpha
}

// Example_hooks demonstrates element lifecycle hooks.
func Example_hooks() {
	type conn struct {
		id   int
		open bool
	}

	next := 0
	s, err := vstack.NewWithHooks(vstack.Hooks[conn]{
		Construct: func(c *conn) error {
			next++
			c.id, c.open = next, true
			return nil
		},
		Destroy: func(c *conn) {
			fmt.Println("closing", c.id)
			c.open = false
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := s.Emplace(nil); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println("live:", s.Len())

	if err := vstack.Destroy(&s); err != nil {
		log.Fatal(err)
	}
	fmt.Println("destroyed:", s == nil)
	// Output:
	// live: 3
	// closing 3
	// closing 2
	// closing 1
	// destroyed: true
}

// Example_raw demonstrates the type-erased container used across plugin boundaries.
func Example_raw() {
	r, err := vstack.NewRaw(8, vstack.WithCapacity(2))
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	var item [8]byte
	for _, v := range []uint64{10, 20, 30} {
		binary.LittleEndian.PutUint64(item[:], v)
		if err := r.Push(item[:]); err != nil {
			log.Fatal(err)
		}
	}

	for i, slot := range r.All() {
		fmt.Println(i, binary.LittleEndian.Uint64(slot))
	}

	length, _ := r.Get(vstack.FieldLength)
	capacity, _ := r.Get(vstack.FieldCapacity)
	fmt.Println("length:", length, "capacity:", capacity)
	// Output:
	// 2 30
	// 1 20
	// 0 10
	// length: 3 capacity: 3
}

// Example_memoryController demonstrates bounding container storage with a shared budget.
func Example_memoryController() {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024})

	r, err := vstack.NewRaw(256, vstack.WithMemoryController(rc), vstack.WithScalePercent(100))
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	item := make([]byte, 256)
	for i := 0; ; i++ {
		if err := r.Push(item); err != nil {
			fmt.Println("push", i, "out of memory:", errors.Is(err, vstack.ErrOutOfMemory))
			break
		}
	}
	fmt.Println("length:", r.Len(), "in use:", rc.MemoryUsage())
	// Output:
	// push 2 out of memory: true
	// length: 2 in use: 512
}
