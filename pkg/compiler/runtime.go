package compiler

// helperDefs holds the JavaScript definition of every runtime helper the
// generated code may call. Only helpers recorded with addInstr are emitted.
// They are thin wrappers over the runtime object _o.
var helperDefs = map[string]string{
	"after": `async function after(timeout, timer, fn) { await _o.after(timeout, timer, fn); }`,
	"bin$":  `function bin$(num, pad = 0) { return num.toString(2).padStart(pad, "0"); }`,
	"cls":   `function cls() { _o.cls(); }`,
	"dec$":  `function dec$(num, format) { return _o.dec$(num, format); }`,
	"dim": `function dim(dims, value = 0) {
	const create = (depth) => {
		const array = new Array(dims[depth] + 1);
		if (depth + 1 < dims.length) {
			for (let i = 0; i < array.length; i += 1) {
				array[i] = create(depth + 1);
			}
		} else {
			array.fill(value);
		}
		return array;
	};
	return create(0);
}`,
	"draw":        `function draw(x, y, pen) { _o.drawMovePlot("draw", x, y, pen); }`,
	"drawr":       `function drawr(x, y, pen) { _o.drawMovePlot("drawr", x, y, pen); }`,
	"end":         `function end() { _o.end(); }`,
	"every":       `async function every(timeout, timer, fn) { await _o.every(timeout, timer, fn); }`,
	"frame":       `async function frame() { await _o.frame(); }`,
	"graphicsPen": `function graphicsPen(num) { _o.graphicsPen(num); }`,
	"hex$":        `function hex$(num, pad = 0) { return num.toString(16).toUpperCase().padStart(pad, "0"); }`,
	"ink":         `function ink(num, col, col2) { _o.ink(num, col, col2); }`,
	"inkey$":      `async function inkey$() { return await _o.inkey$(); }`,
	"input": `async function input(prompt, isNum) {
	const value = await _o.input(prompt);
	return isNum ? Number(value) : value;
}`,
	"instr": `function instr(start, str, search) {
	if (typeof start === "string") {
		search = str;
		str = start;
		start = 1;
	}
	return str.indexOf(search, start - 1) + 1;
}`,
	"locate":   `function locate(x, y) { _o.locate(x, y); }`,
	"mode":     `function mode(num) { _o.mode(num); }`,
	"move":     `function move(x, y, pen) { _o.drawMovePlot("move", x, y, pen); }`,
	"mover":    `function mover(x, y, pen) { _o.drawMovePlot("mover", x, y, pen); }`,
	"origin":   `function origin(x, y) { _o.origin(x, y); }`,
	"paper":    `function paper(num) { _o.paper(num); }`,
	"pen":      `function pen(num) { _o.pen(num); }`,
	"plot":     `function plot(x, y, pen) { _o.drawMovePlot("plot", x, y, pen); }`,
	"plotr":    `function plotr(x, y, pen) { _o.drawMovePlot("plotr", x, y, pen); }`,
	"print":    `function print(...args) { _o.print(...args.map((arg) => typeof arg === "number" ? (arg >= 0 ? " " : "") + arg + " " : arg)); }`,
	"printTag": `function printTag(...args) { _o.printTag(...args.map((arg) => typeof arg === "number" ? (arg >= 0 ? " " : "") + arg + " " : arg)); }`,
	"read":     `function read() { return _data[_dataPtr++]; }`,
	"remain":   `function remain(timer) { return _o.remain(timer); }`,
	"restore":  `function restore(label) { _dataPtr = label === undefined ? 0 : _restoreMap[label]; }`,
	"right$":   `function right$(str, num) { return str.substring(str.length - num); }`,
	"round":    `function round(num, dec = 0) { return Math.round(num * Math.pow(10, dec)) / Math.pow(10, dec); }`,
	"rsx":      `async function rsx(name, args) { return await _o.rsx(name, args); }`,
	"stop":     `function stop() { _o.stop(); }`,
	"str$":     `function str$(num) { return num >= 0 ? " " + num : String(num); }`,
	"string$":  `function string$(num, str) { return (typeof str === "number" ? String.fromCharCode(str) : str.charAt(0)).repeat(num); }`,
	"tag":      `function tag(active) { _o.tag(active); }`,
	"time":     `function time() { return _o.time(); }`,
	"toDeg":    `function toDeg(rad) { return rad * 180 / Math.PI; }`,
	"toRad":    `function toRad(deg) { return deg * Math.PI / 180; }`,
	"val": `function val(str) {
	const s = str.trim().toLowerCase();
	let num;
	if (s.startsWith("&x")) {
		num = parseInt(s.slice(2), 2);
	} else if (s.startsWith("&h")) {
		num = parseInt(s.slice(2), 16);
	} else if (s.startsWith("&")) {
		num = parseInt(s.slice(1), 16);
	} else {
		num = parseFloat(s);
	}
	return isNaN(num) ? 0 : num;
}`,
	"write": `function write(...args) { _o.print(args.map((arg) => typeof arg === "string" ? '"' + arg + '"' : String(arg)).join(",") + "\n"); }`,
	"xpos":  `function xpos() { return _o.xpos(); }`,
	"ypos":  `function ypos() { return _o.ypos(); }`,
	"zone":  `function zone(num) { _o.zone(num); }`,
}
