package renderer

import "github.com/mcfunley/better-keynote-export/layout"

// Renderer 将版面规划输出为最终文件，例如多页 PDF。
// Render 返回生成的二进制数据以及可能的错误；任何一页失败都会使整次渲染失败，
// 以免页码与幻灯片编号错位。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
