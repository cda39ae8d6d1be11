// Package i18n holds the user-facing message catalogs.
package i18n

import "strings"

const DefaultLang = "en"

var catalogs = map[string]map[string]string{
	"en": {
		"title":                       "File Browser",
		"root_dir":                    "Root",
		"new_folder_btn":              "New Folder",
		"upload_btn":                  "Upload",
		"upload_hint":                 "Click or drag files here to upload",
		"parent_dir":                  "Go to parent directory",
		"download":                    "Download",
		"delete":                      "Delete",
		"empty_state":                 "Folder is empty, upload some files!",
		"col_name":                    "Name",
		"col_size":                    "Size",
		"col_modified":                "Modified",
		"folder_name_placeholder":     "Folder name",
		"create":                      "Create",
		"confirm_delete_file":         "Are you sure to delete file \"{name}\"?",
		"confirm_delete_folder":       "Are you sure to delete folder \"{name}\"? All contents will be deleted!",
		"flash_dir_not_exist":         "Directory does not exist",
		"flash_no_permission":         "No permission to access this directory",
		"flash_target_dir_not_exist":  "Target directory does not exist",
		"flash_no_file_selected":      "No file selected",
		"flash_ext_not_allowed":       "File type {ext} is not allowed",
		"flash_ext_not_allowed_many":  "File type {ext} is not allowed ({count} files rejected)",
		"flash_bad_file_name":         "File name \"{name}\" is not allowed",
		"flash_upload_failed":         "Failed to save \"{name}\": {error}",
		"flash_upload_success":        "Successfully uploaded {count} file(s)",
		"flash_upload_too_large":      "Upload exceeds the maximum size of {size}",
		"flash_folder_name_empty":     "Folder name cannot be empty",
		"flash_folder_name_invalid":   "Folder name is not allowed",
		"flash_folder_exists":         "Folder already exists",
		"flash_folder_created":        "Successfully created folder \"{name}\"",
		"flash_folder_create_failed":  "Failed to create folder: {error}",
		"flash_not_exist":             "File or folder does not exist",
		"flash_cannot_delete_root":    "Cannot delete root directory",
		"flash_delete_folder_success": "Successfully deleted folder \"{name}\"",
		"flash_delete_file_success":   "Successfully deleted file \"{name}\"",
		"flash_delete_failed":         "Delete failed: {error}",
		"api_dir_not_exist":           "Directory does not exist",
	},
	"zh": {
		"title":                       "文件浏览器",
		"root_dir":                    "根目录",
		"new_folder_btn":              "新建文件夹",
		"upload_btn":                  "上传",
		"upload_hint":                 "点击或拖拽文件到此处上传",
		"parent_dir":                  "返回上级目录",
		"download":                    "下载",
		"delete":                      "删除",
		"empty_state":                 "文件夹为空，上传一些文件吧！",
		"col_name":                    "名称",
		"col_size":                    "大小",
		"col_modified":                "修改时间",
		"folder_name_placeholder":     "文件夹名称",
		"create":                      "创建",
		"confirm_delete_file":         "确定要删除文件 \"{name}\" 吗？",
		"confirm_delete_folder":       "确定要删除文件夹 \"{name}\" 吗？这将删除文件夹内的所有内容！",
		"flash_dir_not_exist":         "目录不存在",
		"flash_no_permission":         "没有权限访问此目录",
		"flash_target_dir_not_exist":  "目标目录不存在",
		"flash_no_file_selected":      "没有选择文件",
		"flash_ext_not_allowed":       "不允许上传 {ext} 类型的文件",
		"flash_ext_not_allowed_many":  "不允许上传 {ext} 类型的文件（已拒绝 {count} 个）",
		"flash_bad_file_name":         "不允许的文件名 \"{name}\"",
		"flash_upload_failed":         "保存 \"{name}\" 失败: {error}",
		"flash_upload_success":        "成功上传 {count} 个文件",
		"flash_upload_too_large":      "上传内容超过最大限制 {size}",
		"flash_folder_name_empty":     "文件夹名称不能为空",
		"flash_folder_name_invalid":   "不允许的文件夹名称",
		"flash_folder_exists":         "文件夹已存在",
		"flash_folder_created":        "成功创建文件夹 \"{name}\"",
		"flash_folder_create_failed":  "创建文件夹失败: {error}",
		"flash_not_exist":             "文件或文件夹不存在",
		"flash_cannot_delete_root":    "不能删除根目录",
		"flash_delete_folder_success": "成功删除文件夹 \"{name}\"",
		"flash_delete_file_success":   "成功删除文件 \"{name}\"",
		"flash_delete_failed":         "删除失败: {error}",
		"api_dir_not_exist":           "目录不存在",
	},
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

// Catalog returns the message table for lang, falling back to English.
func Catalog(lang string) map[string]string {
	if c, ok := catalogs[lang]; ok {
		return c
	}
	return catalogs[DefaultLang]
}

// T looks up key in lang's catalog and substitutes {param} placeholders.
// Unknown keys are returned as-is.
func T(lang, key string, params map[string]string) string {
	text, ok := Catalog(lang)[key]
	if !ok {
		text = key
	}
	if len(params) == 0 {
		return text
	}

	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
