package director_test

import (
	"fmt"

	"github.com/joshuapare/dirkit/internal/format"
	"github.com/joshuapare/dirkit/internal/writer"
	"github.com/joshuapare/dirkit/pkg/director"
)

func ExampleOpenBytes() {
	b := writer.NewBuilder(writer.Options{Codec: format.CodecMovie, ArchiveVersion: 0x742})
	b.Add(format.TagKeyTable, writer.KeyTable(false))
	b.Add(format.TagSTXT, writer.STXT("hello", nil))

	a, err := director.OpenBytes(b.Bytes(), director.OpenOptions{})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer a.Close()

	c, _ := a.ReadDirFilesContainer()
	fields, _ := a.ReadFields()
	text, _ := fields[0].Text()
	fmt.Println(c.DataBlock.Magic, c.DataBlock.DirectorVersionLabel, string(text))
	// Output: XFIR Director 10 hello
}
