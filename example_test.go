package flatbin_test

import (
	"fmt"

	"github.com/wippyai/flatbin"
)

func ExampleSerialize() {
	type Point struct {
		X, Y int16
		Tag  string
	}

	data, err := flatbin.Serialize(Point{X: 3, Y: -4, Tag: "p"})
	if err != nil {
		panic(err)
	}
	fmt.Println(len(data))

	var back Point
	if err := flatbin.DeserializeStrict(data, &back); err != nil {
		panic(err)
	}
	fmt.Printf("%+v\n", back)
	// Output:
	// 9
	// {X:3 Y:-4 Tag:p}
}
