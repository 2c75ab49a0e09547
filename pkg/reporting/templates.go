/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for profiling reports. A single self-contained page with run
statistics, the ranked pattern table and optional per-position length histograms.
*/

package reporting

// reportHTML is the HTML template for a Report
const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Akaylee Profiler</title>
    <style>
        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            margin: 0;
            color: #333;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        .card {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 20px;
            padding: 30px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        h1 {
            color: #4a5568;
            margin-top: 0;
        }

        .meta {
            color: #718096;
        }

        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 20px;
        }

        .stat .value {
            font-size: 2rem;
            font-weight: 700;
            color: #5a67d8;
        }

        table {
            width: 100%;
            border-collapse: collapse;
        }

        th, td {
            text-align: left;
            padding: 8px 12px;
            border-bottom: 1px solid #e2e8f0;
        }

        code {
            background: #edf2f7;
            border-radius: 4px;
            padding: 2px 6px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <h1>{{.Title}}</h1>
            <p class="meta">Session {{.SessionID}} &middot; generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}} &middot; v{{.Version}}</p>
        </div>

        <div class="card stats">
            <div class="stat"><div class="value">{{.Values}}</div>values</div>
            <div class="stat"><div class="value">{{.Iterations}}</div>iterations</div>
            <div class="stat"><div class="value">{{.TotalSampled}}</div>strings sampled</div>
            <div class="stat"><div class="value">{{.Candidates}}</div>candidate patterns</div>
            <div class="stat"><div class="value">{{percent .Config.MinCoverage}}</div>minimum coverage</div>
        </div>

        <div class="card">
            {{if .Patterns}}
            <table id="patterns">
                <tr><th>#</th><th>Pattern</th><th>Regex</th><th>Coverage</th><th>Specificity</th><th>Matches</th><th>Outliers</th></tr>
                {{range .Patterns}}
                <tr>
                    <td>{{.Rank}}</td>
                    <td><code>{{.Annotated}}</code></td>
                    <td><code>{{.Regex}}</code></td>
                    <td>{{percent .Coverage}}</td>
                    <td>{{fixed .Specificity}}</td>
                    <td>{{.Matches}}</td>
                    <td>{{.Outliers}}</td>
                </tr>
                {{end}}
            </table>
            {{else}}
            <p>No pattern reached coverage {{percent .Config.MinCoverage}}.</p>
            {{end}}
        </div>

        {{range .Patterns}}{{if .Histograms}}
        <div class="card">
            <h2>#{{.Rank}} <code>{{.Pattern}}</code> lengths</h2>
            <table>
                <tr><th>Position</th><th>Token</th><th>Range</th><th>Counts</th></tr>
                {{range .Histograms}}
                <tr><td>{{.Position}}</td><td><code>{{.Symbol}}</code></td><td>{{.Range}}</td><td>{{range $len, $n := .Counts}}{{$len}}:{{$n}} {{end}}</td></tr>
                {{end}}
            </table>
        </div>
        {{end}}{{end}}
    </div>
</body>
</html>
`
