package godispatch

import (
	"fmt"
	"html/template"
)

// PageModel prepares the data a template page renders from the request.
type PageModel interface {
	Prepare(c *Context) interface{}
}

// RenderPage executes the parsed template files against the value the
// page model prepared from the request context.
func RenderPage(c *Context, pageModel PageModel, filenames ...string) {
	tmpl, err := template.ParseFiles(filenames...)
	if err != nil {
		fmt.Fprintf(c.Writer, err.Error())
		return
	}
	data := pageModel.Prepare(c)
	if err = tmpl.Execute(c.Writer, data); err != nil {
		errlog.Println(err)
	}
}
