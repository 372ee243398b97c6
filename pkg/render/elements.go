package render

type tagClass uint8

const (
	// void elements have no children and no closing tag.
	void tagClass = 1 << iota
	// inline elements keep their children on one line in pretty output.
	inline
)

var tagClasses = map[string]tagClass{
	"area":   void,
	"base":   void,
	"br":     void | inline,
	"col":    void,
	"embed":  void,
	"hr":     void,
	"img":    void,
	"input":  void,
	"link":   void,
	"meta":   void,
	"source": void,
	"track":  void,
	"wbr":    void,

	"a":      inline,
	"b":      inline,
	"code":   inline,
	"em":     inline,
	"i":      inline,
	"small":  inline,
	"span":   inline,
	"strong": inline,
	"h1":     inline,
	"h2":     inline,
	"p":      inline,
	"title":  inline,
}

func isVoidElement(tag string) bool { return tagClasses[tag]&void != 0 }

func isInlineElement(tag string) bool { return tagClasses[tag]&inline != 0 }

// isBooleanAttr reports whether name is written without a value when true.
func isBooleanAttr(name string) bool {
	switch name {
	case "allowfullscreen", "async", "defer", "disabled", "hidden":
		return true
	}
	return false
}
