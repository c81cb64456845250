package api

import "net/http"

// handleIndex serves the built-in editor page: the MJPEG preview scaled to
// the window with pointer and keyboard events forwarded over the WebSocket.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(viewerHTML))
}

const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>rectshot</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            background: #000;
            overflow: hidden;
            display: flex;
            justify-content: center;
            align-items: center;
            min-height: 100vh;
            cursor: crosshair;
        }
        img {
            max-width: 100vw;
            max-height: 100vh;
            display: block;
            user-select: none;
            -webkit-user-drag: none;
        }
        .hint {
            position: fixed;
            bottom: 12px;
            left: 50%;
            transform: translateX(-50%);
            padding: 6px 14px;
            background: rgba(0, 0, 0, 0.7);
            color: #ccc;
            border-radius: 16px;
            font-family: system-ui, sans-serif;
            font-size: 13px;
            pointer-events: none;
        }
    </style>
</head>
<body>
    <img id="preview" src="/stream" alt="Capture preview" draggable="false">
    <div class="hint">Drag to select; Enter or double-click to capture; Esc to cancel</div>
    <script>
        const img = document.getElementById('preview');
        const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/api/events');
        let bounds = null;
        let scale = 1;

        fetch('/api/session')
            .then(r => r.json())
            .then(s => { bounds = s.bounds; fit(); })
            .catch(console.error);

        function fit() {
            if (!bounds) return;
            const rect = img.getBoundingClientRect();
            scale = rect.width > 0 ? bounds.w / rect.width : 1;
        }
        window.addEventListener('resize', fit);
        img.addEventListener('load', fit);

        function toLogical(e) {
            const rect = img.getBoundingClientRect();
            return {
                x: (e.clientX - rect.left) * scale + (bounds ? bounds.x : 0),
                y: (e.clientY - rect.top) * scale + (bounds ? bounds.y : 0)
            };
        }

        function send(msg) {
            if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
        }

        function buttonName(e) {
            if (e.button === 2) return 'right';
            if (e.button === 0) return 'left';
            return 'none';
        }

        img.addEventListener('mousedown', e => {
            e.preventDefault();
            const p = toLogical(e);
            send({type: 'pointer', action: 'press', x: p.x, y: p.y, button: buttonName(e)});
        });
        img.addEventListener('mousemove', e => {
            const p = toLogical(e);
            send({type: 'pointer', action: 'move', x: p.x, y: p.y});
        });
        img.addEventListener('mouseup', e => {
            const p = toLogical(e);
            send({type: 'pointer', action: 'release', x: p.x, y: p.y, button: buttonName(e)});
        });
        img.addEventListener('dblclick', e => {
            const p = toLogical(e);
            send({type: 'pointer', action: 'doubleclick', x: p.x, y: p.y, button: 'left'});
        });
        img.addEventListener('contextmenu', e => e.preventDefault());

        const keyNames = {
            ArrowUp: 'up', ArrowDown: 'down', ArrowLeft: 'left',
            ArrowRight: 'right', Enter: 'enter', Escape: 'escape'
        };
        window.addEventListener('keydown', e => {
            const key = keyNames[e.key];
            if (!key) return;
            e.preventDefault();
            const mods = [];
            if (e.shiftKey) mods.push('shift');
            if (e.altKey) mods.push('alt');
            send({type: 'key', key: key, modifiers: mods});
        });

        ws.addEventListener('message', e => {
            const msg = JSON.parse(e.data);
            if (msg.type === 'accepted' || msg.type === 'cancelled') {
                document.querySelector('.hint').textContent =
                    msg.type === 'accepted' ? 'Captured' : 'Cancelled';
            }
        });
    </script>
</body>
</html>`
