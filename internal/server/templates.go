package server

import (
	"html/template"

	"filebrowser/internal/flash"
)

const indexTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{index .I18n "title"}}</title>
    <style>
      body { font-family: sans-serif; margin: 2em auto; max-width: 960px; }
      .notice { padding: .5em 1em; margin: .5em 0; border-radius: 4px; }
      .notice.success { background: #e6f4ea; }
      .notice.error { background: #fce8e6; }
      .actions form { display: inline-block; margin-right: 1em; }
      table { width: 100%; border-collapse: collapse; }
      td, th { padding: .3em .5em; text-align: left; border-bottom: 1px solid #eee; }
      td form { display: inline; }
      .empty { text-align: center; color: #888; }
    </style>
  </head>
  <body>
    <header>
      <h1>{{index .I18n "title"}}</h1>
      <nav><a href="/lang/en">English</a> | <a href="/lang/zh">中文</a></nav>
    </header>
    <nav class="breadcrumbs">
      {{range $i, $b := .Breadcrumbs}}{{if $i}} / {{end}}<a href="{{$b.Href}}">{{$b.Label}}</a>{{end}}
    </nav>
    {{range .Notices}}
      <div class="notice {{.Kind}}">{{.Message}}</div>
    {{end}}
    <section class="actions">
      <form method="post" action="{{.UploadAction}}" enctype="multipart/form-data">
        <input type="file" name="files" multiple required title="{{index .I18n "upload_hint"}}">
        <button type="submit">{{index .I18n "upload_btn"}}</button>
      </form>
      <form method="post" action="{{.NewFolderAction}}">
        <input type="text" name="folder_name" placeholder="{{index .I18n "folder_name_placeholder"}}" required>
        <button type="submit">{{index .I18n "new_folder_btn"}}</button>
      </form>
    </section>
    <table>
      <thead>
        <tr>
          <th></th>
          <th>{{index .I18n "col_name"}}</th>
          <th>{{index .I18n "col_size"}}</th>
          <th>{{index .I18n "col_modified"}}</th>
          <th></th>
        </tr>
      </thead>
      <tbody>
        {{if .HasParent}}
          <tr><td>⬆️</td><td colspan="4"><a href="{{.ParentHref}}">{{index .I18n "parent_dir"}}</a></td></tr>
        {{end}}
        {{range .Entries}}
          <tr>
            <td>{{.Icon}}</td>
            <td><a href="{{.Href}}">{{.Name}}</a></td>
            <td>{{.Size}}</td>
            <td>{{.Modified}}</td>
            <td>
              {{if not .IsDir}}<a href="{{.Href}}">{{index $.I18n "download"}}</a>{{end}}
              <form method="post" action="{{.DeleteAction}}" onsubmit="return confirm({{.ConfirmDelete}})">
                <button type="submit">{{index $.I18n "delete"}}</button>
              </form>
            </td>
          </tr>
        {{else}}
          <tr><td colspan="5" class="empty">{{index $.I18n "empty_state"}}</td></tr>
        {{end}}
      </tbody>
    </table>
  </body>
</html>`

type indexPageData struct {
	Lang            string
	I18n            map[string]string
	Breadcrumbs     []breadcrumb
	Notices         []flash.Notice
	HasParent       bool
	ParentHref      string
	UploadAction    string
	NewFolderAction string
	Entries         []entryView
}

type entryView struct {
	Name          string
	IsDir         bool
	Icon          string
	Size          string
	Modified      string
	Href          string
	DeleteAction  string
	ConfirmDelete string
}

func newIndexTemplate() (*template.Template, error) {
	return template.New("index").Parse(indexTemplate)
}
