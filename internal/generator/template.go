package generator

// digestTemplate 公众号编辑器只认内联样式，不能引用外部 CSS/JS；
// 模板内嵌成常量，避免运行期的文件依赖
const digestTemplate = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>财经基金日报 - {{.TradingDay}}</title>
</head>
<body>
    <p style="margin:20px 0; font-size:16px; line-height:2;"><strong style="font-size:16px; color:#333;">核心提示</strong>：{{range $i, $line := .CoreTip}}{{if $i}}<br/><br/>{{end}}{{$line}}{{end}}</p>
{{range $i, $a := .Articles}}
    <p style="font-size:16px;"><br/></p>
    <p style="margin:20px 0 10px 0; font-size:16px; font-weight:bold; color:#333; line-height:1.8;">{{$a.Icon}}{{seq $i}}. {{$a.Title}}{{if not $a.Fresh}} 🔄{{end}}</p>
    <p style="margin:10px 0; font-size:16px; color:#555; line-height:1.8;"><strong>摘要</strong>：{{$a.Summary}}</p>
    <p style="margin:10px 0 20px 0; font-size:16px; color:#27ae60; line-height:1.8;"><strong>关联基金</strong>：{{join $a.Funds}}</p>
{{end}}
</body>
</html>
`
