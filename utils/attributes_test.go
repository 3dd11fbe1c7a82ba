package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestAttributeMapHas(t *testing.T) {
	attrs := AttributeMap{"width": float64(12), "blocked": nil}
	test.That(t, attrs.Has("width"), test.ShouldBeTrue)
	test.That(t, attrs.Has("blocked"), test.ShouldBeTrue)
	test.That(t, attrs.Has("height"), test.ShouldBeFalse)
	test.That(t, AttributeMap(nil).Has("width"), test.ShouldBeFalse)
}

type testAttrs struct {
	Width   int      `json:"width"`
	Blocked []string `json:"blocked"`
}

func TestDecodeAttributes(t *testing.T) {
	out, err := DecodeAttributes[testAttrs](AttributeMap{
		"width":   float64(3),
		"blocked": []interface{}{"1,1", "2,0"},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldResemble, testAttrs{Width: 3, Blocked: []string{"1,1", "2,0"}})

	_, err = DecodeAttributes[testAttrs](AttributeMap{"width": 1, "heigth": 2})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "heigth")
}
