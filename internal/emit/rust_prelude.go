package emit

import "strings"

// rustPrelude is the runtime every Rust output carries, so the file builds
// with rustc alone. It mirrors the Go package fuhao/runtime.
const rustPrelude = `mod rt {
	use std::cell::RefCell;
	use std::fmt;

	#[derive(Clone, Debug, PartialEq)]
	pub enum Value {
		Nil,
		Num(f64),
		Str(String),
		Name(String),
		List(Vec<Value>),
		Frag(Vec<Value>),
		Obj(Vec<(String, Value)>),
		El(String, Vec<(String, Value)>),
	}

	impl From<f64> for Value {
		fn from(v: f64) -> Self {
			Value::Num(v)
		}
	}

	impl From<&str> for Value {
		fn from(v: &str) -> Self {
			Value::Str(v.to_string())
		}
	}

	impl From<Vec<Value>> for Value {
		fn from(v: Vec<Value>) -> Self {
			Value::List(v)
		}
	}

	impl fmt::Display for Value {
		fn fmt(&self, f: &mut fmt::Formatter<'_>) -> fmt::Result {
			match self {
				Value::Nil => write!(f, "<nil>"),
				Value::Num(n) => write!(f, "{}", n),
				Value::Str(s) | Value::Name(s) => write!(f, "{}", s),
				other => write!(f, "{:?}", other),
			}
		}
	}

	thread_local! {
		static MODULES: RefCell<Vec<String>> = RefCell::new(Vec::new());
	}

	pub fn import(names: &[&str]) {
		MODULES.with(|m| {
			let mut m = m.borrow_mut();
			for n in names {
				if !m.iter().any(|x| x.as_str() == *n) {
					m.push(n.to_string());
				}
			}
			m.sort();
		});
	}

	pub fn imported() -> Vec<String> {
		MODULES.with(|m| m.borrow().clone())
	}

	// lookup: имя, которое программа не объявила (модуль рантайма и т.п.).
	pub fn lookup(name: &str) -> Value {
		Value::Name(name.to_string())
	}

	pub fn obj(fields: &[(&str, Value)]) -> Value {
		Value::Obj(fields.iter().map(|(k, v)| (k.to_string(), v.clone())).collect())
	}

	pub fn styled(tag: Value, props: Value) -> Value {
		let props = match props {
			Value::Nil => Vec::new(),
			Value::Obj(fields) => fields,
			other => vec![("value".to_string(), other)],
		};
		Value::El(tag.to_string(), props)
	}

	pub fn compose(parts: Vec<Value>) -> Value {
		let mut out = Vec::new();
		for p in parts {
			match p {
				Value::Nil => {}
				Value::Frag(items) => out.extend(items),
				other => out.push(other),
			}
		}
		match out.len() {
			0 => Value::Nil,
			1 => out.pop().unwrap(),
			_ => Value::Frag(out),
		}
	}

	pub fn render(v: &Value) -> String {
		let mut out = String::new();
		value(&mut out, v, 0);
		out
	}

	fn line(out: &mut String, depth: usize, s: &str) {
		out.push_str(&"  ".repeat(depth));
		out.push_str(s);
		out.push('\n');
	}

	fn value(out: &mut String, v: &Value, depth: usize) {
		match v {
			Value::Nil => {}
			Value::Frag(items) | Value::List(items) => {
				for item in items {
					value(out, item, depth);
				}
			}
			Value::Obj(fields) => {
				for (k, v) in fields {
					field(out, k, v, depth);
				}
			}
			Value::El(tag, props) => {
				line(out, depth, &format!("<{}>", tag));
				for (k, v) in props {
					field(out, k, v, depth + 1);
				}
			}
			other => line(out, depth, &other.to_string()),
		}
	}

	fn field(out: &mut String, key: &str, v: &Value, depth: usize) {
		match v {
			Value::El(..) | Value::Obj(_) | Value::Frag(_) | Value::List(_) => {
				line(out, depth, &format!("{}:", key));
				value(out, v, depth + 1);
			}
			_ => line(out, depth, &format!("{}: {}", key, v)),
		}
	}

	pub fn run(root: fn() -> Value) {
		print!("{}", render(&root()));
	}
}`

// writeRustPrelude re-indents the prelude with the writer's settings.
func writeRustPrelude(w *Writer) {
	for _, l := range strings.Split(rustPrelude, "\n") {
		body := strings.TrimLeft(l, "\t")
		if body == "" {
			w.Newline()
			continue
		}
		depth := len(l) - len(body)
		for i := 0; i < depth; i++ {
			w.IndentPush()
		}
		w.WriteLine(body)
		for i := 0; i < depth; i++ {
			w.IndentPop()
		}
	}
}
