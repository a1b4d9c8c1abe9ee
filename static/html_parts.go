package static

// Страница демо собирается из трёх кусков: форма, график echarts, логи.
var (
	Part1 = `<!DOCTYPE html>
<html lang="ru">
<head>
    <meta charset="utf-8">
    <title>Регионы шин</title>
    <style>
        :root {
            --bg: #1b1d21;
            --panel: #24272d;
            --line: #3a3f47;
            --text: #cfd3da;
            --muted: #8a909a;
            --accent: #5fb3a1;
        }

        html, body {
            margin: 0;
            height: 100%;
            background: var(--bg);
            color: var(--text);
            font: 14px/1.4 "JetBrains Mono", Consolas, monospace;
        }

        main {
            display: grid;
            grid-template-columns: minmax(320px, 3fr) 2fr;
            height: 100vh;
        }

        section {
            padding: 12px 16px;
            overflow: auto;
        }

        section + section {
            background: var(--panel);
            border-left: 1px solid var(--line);
        }

        h2 {
            margin: 4px 0 10px;
            font-size: 15px;
            font-weight: normal;
            color: var(--accent);
            text-transform: uppercase;
            letter-spacing: 1px;
        }

        fieldset {
            border: 1px solid var(--line);
            border-radius: 6px;
            margin: 0 0 12px;
            padding: 8px 12px;
        }

        legend {
            color: var(--muted);
            padding: 0 4px;
        }

        .row {
            display: grid;
            grid-template-columns: 12em 8em;
            align-items: center;
            gap: 6px;
            margin: 4px 0;
        }

        .flag {
            display: flex;
            align-items: center;
            gap: 6px;
            margin: 4px 0;
        }

        input[type="number"] {
            background: var(--bg);
            color: var(--text);
            border: 1px solid var(--line);
            border-radius: 4px;
            padding: 3px 6px;
        }

        input[type="checkbox"] {
            accent-color: var(--accent);
        }

        button {
            background: var(--accent);
            color: var(--bg);
            border: 0;
            border-radius: 4px;
            padding: 6px 18px;
            cursor: pointer;
        }

        button:disabled {
            background: var(--line);
            cursor: wait;
        }

        .hint {
            color: var(--muted);
            font-size: 12px;
            margin: 0 0 10px;
        }

        .hint b {
            color: var(--text);
            font-weight: normal;
        }

        #logs pre {
            margin: 0 0 6px;
            white-space: pre-wrap;
            word-break: break-all;
            font-size: 12px;
        }
    </style>
</head>
<body>
<main>
    <section>
        <h2>Разбиение границы по станциям</h2>
        <p class="hint">
            Каждая станция получает <b>регион</b> - часть границы, которая ближе к ней, чем к любой
            другой станции. Станции вне границы отбрасываются, регионы вместе покрывают всю границу.
        </p>
        <form id="regions-form" method="POST">
            <fieldset>
                <legend>граница</legend>
                <label class="row">Ширина, W
                    <input type="number" name="width" value="1000" min="100" max="5000"></label>
                <label class="row">Высота, H
                    <input type="number" name="height" value="1000" min="100" max="5000"></label>
                <label class="flag"><input type="checkbox" name="notch" value="true">
                    буква L: правая верхняя четверть вырезана</label>
            </fieldset>
            <fieldset>
                <legend>станции</legend>
                <label class="row">Количество, n
                    <input type="number" name="stations" value="10" min="1" max="200"></label>
                <label class="flag"><input type="checkbox" name="random" value="true">
                    случайно, иначе сеткой</label>
            </fieldset>
            <button type="submit">Построить</button>
        </form>
        <p class="hint">Точки - станции, цветные области - их регионы.</p>
`

	Part2 = `
    </section>
    <section>
        <h2>Лог прохода</h2>
        <div id="logs">`

	Part3 = `
        </div>
    </section>
</main>
<script>
    const form = document.getElementById('regions-form');
    form.addEventListener('submit', async (e) => {
        e.preventDefault();
        const button = form.querySelector('button');
        button.disabled = true;
        try {
            const resp = await fetch('/', {
                method: 'POST',
                headers: {'Content-Type': 'application/x-www-form-urlencoded'},
                body: new URLSearchParams(new FormData(form)),
            });
            if (!resp.ok) {
                throw new Error('HTTP ' + resp.status);
            }
            // ответ - страница целиком, с новым графиком и логами
            const html = await resp.text();
            document.open();
            document.write(html);
            document.close();
        } catch (err) {
            console.error('регионы не построены:', err);
            button.disabled = false;
        }
    });
</script>
</body>
</html>
`
)
